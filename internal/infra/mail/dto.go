package mail

type NurturingEmailData struct {
	FirstName string
	Interest  string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
