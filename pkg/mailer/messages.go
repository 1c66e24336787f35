package mailer

import "fmt"

// ApprovalJob builds the one-time credentials mail sent when an
// administrator approves a profile. The temporary password appears here in
// plaintext exactly once and nowhere else.
func ApprovalJob(to, username, tempPassword string) EmailJob {
	text := fmt.Sprintf(`Dear %s,

Congratulations! Your profile has been approved.

Here are your temporary login credentials:
Username: %s
Password: %s

Please log in to your account and change your credentials to something more secure.

Thank you for joining us.

Best Regards,
The Team`, username, username, tempPassword)

	html := fmt.Sprintf(`<p>Dear <strong>%s</strong>,</p>
<p>Congratulations! Your profile has been approved.</p>
<p>Here are your temporary login credentials:</p>
<p><strong>Username:</strong> %s</p>
<p><strong>Password:</strong> %s</p>
<p>Please log in to your account and change your credentials to something more secure.</p>
<p>Thank you for joining us.</p>
<p>Best Regards,<br>The Team</p>`, username, username, tempPassword)

	return EmailJob{
		To:      to,
		Subject: "Your Profile Has Been Approved - Welcome!",
		Text:    text,
		HTML:    html,
	}
}

// PasswordResetJob builds the out-of-band reset link mail.
func PasswordResetJob(to, resetURL string) EmailJob {
	text := fmt.Sprintf(`You are receiving this because you (or someone else) have requested the reset of the password for your account.
Please click on the following link, or paste this into your browser to complete the process:
%s
If you did not request this, please ignore this email and your password will remain unchanged.`, resetURL)

	return EmailJob{
		To:      to,
		Subject: "Password Reset Request",
		Text:    text,
	}
}
