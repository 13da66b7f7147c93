// Package payload maps the unified notification model onto each provider's
// exact wire JSON schema. Absent inputs are omitted from the output entirely
// rather than sent as null or empty strings.
package payload

import "github.com/betomoedano/quick-push/pkg/push"

// ExpoPush is the Expo Push API notification object. Field names follow the
// exp.host schema, including the underscore-prefixed _contentAvailable.
type ExpoPush struct {
	To                []string          `json:"to"`
	Title             string            `json:"title"`
	Body              string            `json:"body"`
	Data              map[string]string `json:"data,omitempty"`
	TTL               int               `json:"ttl,omitempty"`
	Expiration        int               `json:"expiration,omitempty"`
	Priority          string            `json:"priority,omitempty"`
	Subtitle          string            `json:"subtitle,omitempty"`
	Sound             string            `json:"sound,omitempty"`
	Badge             *int              `json:"badge,omitempty"`
	InterruptionLevel string            `json:"interruptionLevel,omitempty"`
	ChannelID         string            `json:"channelId,omitempty"`
	CategoryID        string            `json:"categoryId,omitempty"`
	MutableContent    bool              `json:"mutableContent,omitempty"`
	ContentAvailable  bool              `json:"_contentAvailable,omitempty"`
	RichContent       *ExpoRichContent  `json:"richContent,omitempty"`
}

// ExpoRichContent attaches an image to the notification.
type ExpoRichContent struct {
	Image string `json:"image"`
}

// BuildExpo maps the request onto the Expo wire schema for the given
// recipients. An empty body is sent as a single space: the upstream API has
// historically rejected fully empty bodies, so the shim is kept as-is.
func BuildExpo(req *push.NotificationRequest, to []string) ExpoPush {
	body := req.Body
	if body == "" {
		body = " "
	}
	p := ExpoPush{
		To:                to,
		Title:             req.Title,
		Body:              body,
		Data:              req.Data,
		TTL:               req.TTL,
		Expiration:        req.Expiration,
		Subtitle:          req.Subtitle,
		Sound:             req.Sound,
		Badge:             req.Badge,
		InterruptionLevel: string(req.InterruptionLevel),
		ChannelID:         req.ChannelID,
		CategoryID:        req.Category,
		MutableContent:    req.MutableContent,
		ContentAvailable:  req.ContentAvailable,
	}
	if req.Priority != "" {
		p.Priority = string(req.Priority)
	}
	if req.ImageURL != "" {
		p.RichContent = &ExpoRichContent{Image: req.ImageURL}
	}
	return p
}
