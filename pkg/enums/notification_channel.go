package enums

// NotificationChannel names the transport a message went out on.
type NotificationChannel string

const (
	ChannelSMS      NotificationChannel = "sms"
	ChannelEmail    NotificationChannel = "email"
	ChannelWhatsApp NotificationChannel = "whatsapp"
)
