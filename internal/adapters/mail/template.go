package mail

import (
	"fmt"
	"time"
)

const verificationSubject = "Your Tixoraa verification code"

func verificationText(appName, code string, expiresAt time.Time) string {
	return fmt.Sprintf(
		"Your %s verification code is: %s\n\nIt expires at %s. If you did not request this code, you can ignore this email.\n",
		appName, code, expiresAt.UTC().Format("15:04 MST, Jan 2"),
	)
}

func verificationHTML(appName, code string, expiresAt time.Time) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px;">
  <h2>%s verification code</h2>
  <p style="font-size: 32px; letter-spacing: 6px; font-weight: bold;">%s</p>
  <p>This code expires at %s.</p>
  <p style="color: #666;">If you did not request this code, you can ignore this email.</p>
</div>`, appName, code, expiresAt.UTC().Format("15:04 MST, Jan 2"))
}
