package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// GetInitialsAvatarURL generates a deterministic placeholder avatar URL for a
// reviewer display name. The same name always yields the same image, so a
// reviewer keeps their avatar across submissions without us storing a file.
func GetInitialsAvatarURL(displayName string) string {
	seed := strings.TrimSpace(displayName)

	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s", url.QueryEscape(seed))
}
