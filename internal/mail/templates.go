// AngelaMos | 2026
// templates.go

package mail

import "fmt"

func VerificationMessage(baseURL, userID, tokenID string) (subject, body string) {
	link := fmt.Sprintf(
		"%s/v1/auth/verify?token=%s&userId=%s",
		baseURL, tokenID, userID,
	)

	subject = "Verify your email address"
	body = fmt.Sprintf(
		"Welcome to the marketplace!\n\n"+
			"Open the link below to verify your email address. "+
			"The link is valid for 2 hours and can be used once.\n\n%s\n",
		link,
	)
	return subject, body
}

func PasswordResetMessage(tokenID string) (subject, body string) {
	subject = "Password reset code"
	body = fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Use the one-time code below within 2 hours. "+
			"If you did not request a reset, ignore this message.\n\n%s\n",
		tokenID,
	)
	return subject, body
}

func DeleteAccountMessage(tokenID string) (subject, body string) {
	subject = "Confirm account deletion"
	body = fmt.Sprintf(
		"A request was made to delete your account.\n\n"+
			"Use the one-time code below within 2 hours to confirm. "+
			"If you did not request deletion, ignore this message and "+
			"consider changing your password.\n\n%s\n",
		tokenID,
	)
	return subject, body
}
