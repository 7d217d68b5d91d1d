package mail

type LeadNotifier struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}
