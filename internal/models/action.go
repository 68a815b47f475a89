package models

const (
	ActionDefault = "com.apple.UNNotificationDefaultActionIdentifier"
	ActionOpenURL = "OPEN_URL"
)

// ResolveLaunchURL returns the link a tapped notification should open. Only the
// default action and the "Open Link" action of URL_NOTIFICATION pushes carry one.
func ResolveLaunchURL(actionID string, userInfo map[string]any) (string, bool) {
	if actionID != ActionDefault && actionID != ActionOpenURL {
		return "", false
	}
	aps, ok := userInfo["aps"].(map[string]any)
	if !ok {
		return "", false
	}
	if category, _ := aps["category"].(string); category != CategoryURL {
		return "", false
	}
	launchURL, ok := userInfo["launch_url"].(string)
	if !ok || launchURL == "" {
		return "", false
	}
	return launchURL, true
}
