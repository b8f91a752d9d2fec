package email

import "github.com/potatoland/potatoland/shared/config"

var configFixture = config.Email{
	SMTPServer: "smtp.example.com",
	SMTPPort:   587,
	Username:   "board@potatoland.dev",
	SenderName: "potatoland",
}
