package mail

import (
	"html/template"

	"github.com/pokebattle/battle-api/internal/core/ports"
)

type mailTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[ports.NotificationKind]mailTemplate{
	ports.NotifyOTP: {
		subject: "Your one-time code",
		body: template.Must(template.New("otp").Parse(`<html>
  <body>
    <p>Hello!<br>
    Your one-time login code: <b>{{ .OTP }}</b></p>
  </body>
</html>`)),
	},
	ports.NotifyResetPassword: {
		subject: "Password reset",
		body: template.Must(template.New("reset").Parse(`<html>
  <body>
    <p>Hello!<br>
    To reset your password follow the link: <a href="{{ .ResetURL }}">{{ .ResetURL }}</a></p>
  </body>
</html>`)),
	},
	ports.NotifyVerifyEmail: {
		subject: "Confirm your e-mail",
		body: template.Must(template.New("verify").Parse(`<html>
  <body>
    <p>Hello!<br>
    Your verification token: <b>{{ .Token }}</b></p>
  </body>
</html>`)),
	},
	ports.NotifyBattleLog: {
		subject: "Pokemon battle",
		body: template.Must(template.New("battle").Parse(`<html>
  <body>
    <p>Hello!<br>
    The battle went as follows: winner - {{ .WinnerID }}, loser - {{ .LoserID }}, total rounds - {{ .Rounds }}</p>
  </body>
</html>`)),
	},
}
