// internal/app/notify/templates.go
package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// SiteName appears in subjects and message bodies.
const SiteName = "PreCollege Hub"

// BuildInvitationEmail renders the credentials email with both HTML and text
// bodies.
func BuildInvitationEmail(inv Invitation) Email {
	return Email{
		To:       inv.Email,
		ToName:   inv.Name,
		Subject:  fmt.Sprintf("Your %s account", SiteName),
		TextBody: buildInvitationText(inv),
		HTMLBody: buildInvitationHTML(inv),
	}
}

// BuildInvitationSMS renders the short-form credentials message.
func BuildInvitationSMS(inv Invitation) string {
	return fmt.Sprintf("%s: your account is ready. Username: %s Password: %s",
		SiteName, inv.Username, inv.Password)
}

func buildInvitationText(inv Invitation) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hi %s,\n\n", inv.Name))
	buf.WriteString(fmt.Sprintf("Your %s account has been created.\n\n", SiteName))
	buf.WriteString(fmt.Sprintf("Username: %s\n", inv.Username))
	buf.WriteString(fmt.Sprintf("Password: %s\n\n", inv.Password))
	buf.WriteString("Sign in with these credentials and change your password after your first login.\n")
	return buf.String()
}

func buildInvitationHTML(inv Invitation) string {
	tmpl := template.Must(template.New("invitation").Parse(invitationHTMLTemplate))
	data := struct {
		SiteName string
		Invitation
	}{SiteName: SiteName, Invitation: inv}
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const invitationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Account Created</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>

          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                Hi {{.Name}}, your account has been created. Sign in with:
              </p>

              <!-- Credentials Box -->
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 24px; margin-bottom: 24px;">
                <p style="margin: 0 0 8px; font-size: 14px; color: #6b7280;">Username</p>
                <p style="margin: 0 0 16px; font-size: 20px; font-weight: 700; color: #1f2937; font-family: 'Courier New', monospace;">{{.Username}}</p>
                <p style="margin: 0 0 8px; font-size: 14px; color: #6b7280;">Password</p>
                <p style="margin: 0; font-size: 20px; font-weight: 700; color: #1f2937; font-family: 'Courier New', monospace;">{{.Password}}</p>
              </div>

              <p style="margin: 0; font-size: 13px; color: #9ca3af; text-align: center;">
                Please change your password after your first sign-in.
              </p>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                If you were not expecting this account, contact your program coordinator.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
