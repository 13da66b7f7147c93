package payload

import (
	"strings"

	"github.com/betomoedano/quick-push/pkg/push"
)

// FCMMessage is the FCM v1 message object posted under {"message": ...}.
type FCMMessage struct {
	Token        string            `json:"token"`
	Notification *FCMNotification  `json:"notification,omitempty"`
	Android      *FCMAndroidConfig `json:"android,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

type FCMNotification struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	Image string `json:"image,omitempty"`
}

type FCMAndroidConfig struct {
	Priority     string                  `json:"priority,omitempty"`
	Notification *FCMAndroidNotification `json:"notification,omitempty"`
}

type FCMAndroidNotification struct {
	ChannelID string `json:"channel_id,omitempty"`
	Sound     string `json:"sound,omitempty"`
	Color     string `json:"color,omitempty"`
}

// FCMRequestBody wraps the message for the messages:send endpoint.
type FCMRequestBody struct {
	Message FCMMessage `json:"message"`
}

// BuildFCM maps the request onto an FCM v1 message for one registration
// token. A request with no alert content becomes a data-only message with no
// notification object.
func BuildFCM(req *push.NotificationRequest, token string) FCMMessage {
	msg := FCMMessage{Token: token, Data: req.Data}

	if req.IsAlert() || req.ImageURL != "" {
		msg.Notification = &FCMNotification{
			Title: req.Title,
			Body:  req.Body,
			Image: req.ImageURL,
		}
	}

	// Android priority defaults to HIGH, matching the tool's historical
	// behavior; only an explicit "normal" downgrades it.
	android := &FCMAndroidConfig{Priority: "HIGH"}
	if req.Priority == push.PriorityNormal {
		android.Priority = "NORMAL"
	}
	if msg.Notification != nil && (req.ChannelID != "" || req.Sound != "" || req.Color != "") {
		android.Notification = &FCMAndroidNotification{
			ChannelID: req.ChannelID,
			Sound:     req.Sound,
			Color:     normalizeColor(req.Color),
		}
	}
	msg.Android = android
	return msg
}

// normalizeColor ensures a leading # on Android accent colors.
func normalizeColor(c string) string {
	if c == "" {
		return ""
	}
	return "#" + strings.TrimLeft(c, "#")
}
