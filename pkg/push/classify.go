package push

// Remediation hints keyed by provider error code. The texts mirror what the
// provider documentation recommends and are meant to be shown to the user
// next to the raw status/reason.

var apnsHints = map[string]string{
	"BadDeviceToken": "The token is invalid. Check: wrong environment (sandbox vs production), " +
		"token is stale, or token format is incorrect.",
	"DeviceTokenNotForTopic": "The device token doesn't match the topic (bundle ID). Verify your " +
		"Bundle ID is correct and the token was generated for this app.",
	"Unregistered": "The token is no longer valid. The device may have uninstalled the app " +
		"or the token has expired.",
	"TopicDisallowed": "Push notifications are not allowed for this topic. Check your " +
		"provisioning profile and entitlements.",
	"InvalidProviderToken": "The JWT token is invalid. Verify your Team ID, Key ID, and .p8 key file.",
	"ExpiredProviderToken": "The JWT token has expired. It will be refreshed on the next send.",
	"MissingTopic":         "The apns-topic header is missing. This is a quick-push bug, please report it.",
}

var fcmHints = map[string]string{
	"INVALID_ARGUMENT": "The request payload is invalid. Check that the FCM registration token " +
		"is correct and the message payload is well-formed.",
	"NOT_FOUND": "The FCM registration token is no longer valid. The device may have " +
		"uninstalled the app or the token has expired. Remove this token from your records.",
	"UNREGISTERED": "The FCM registration token is no longer valid. The device may have " +
		"uninstalled the app or the token has expired. Remove this token from your records.",
	"SENDER_ID_MISMATCH": "The token was registered with a different sender (project). Ensure you " +
		"are using the correct Firebase project and service account.",
	"QUOTA_EXCEEDED": "Sending rate exceeded. Slow down your message sending rate and retry " +
		"with exponential backoff.",
	"UNAVAILABLE": "The FCM service is temporarily unavailable. Retry with exponential backoff.",
	"INTERNAL":    "An internal error occurred on the FCM server. Retry with exponential backoff.",
}

var expoHints = map[string]string{
	"DeviceNotRegistered": "The Expo push token is no longer valid. The device may have " +
		"uninstalled the app. Remove this token from your records.",
	"MessageTooBig":        "The notification payload exceeds Expo's 4 KiB limit. Trim the data map.",
	"MessageRateExceeded":  "Sending too fast for this device. Back off and retry.",
	"InvalidCredentials":   "Your push credentials for the app are invalid. Check them in the Expo dashboard.",
	"ExpoPushTokenInvalid": "The recipient is not a valid ExponentPushToken. Copy it from the device again.",
}

// Classify maps a provider error code (APNs reason, FCM status or errorCode,
// Expo ticket/error code) to a remediation hint, or "" when no hint applies.
// The status code disambiguates nothing today but is part of the contract so
// future hints can key off it.
func Classify(provider Provider, statusCode int, code string) string {
	if code == "" {
		return ""
	}
	switch provider {
	case ProviderAPNs:
		return apnsHints[code]
	case ProviderFCM:
		return fcmHints[code]
	case ProviderExpo:
		return expoHints[code]
	}
	return ""
}
