package main

import (
	"github.com/spf13/cobra"

	"github.com/betomoedano/quick-push/pkg/push"
)

// notificationFlags binds the shared notification fields that every send
// command exposes.
type notificationFlags struct {
	title             string
	subtitle          string
	body              string
	sound             string
	badge             int
	category          string
	threadID          string
	channelID         string
	priority          string
	interruptionLevel string
	data              map[string]string
	imageURL          string
	color             string
	mutableContent    bool
	contentAvailable  bool
	ttl               int
	expiration        int
}

func (f *notificationFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.title, "title", "", "notification title")
	flags.StringVar(&f.subtitle, "subtitle", "", "notification subtitle")
	flags.StringVar(&f.body, "body", "", "notification body")
	flags.StringVar(&f.sound, "sound", "default", "sound name")
	flags.IntVar(&f.badge, "badge", -1, "app icon badge count (-1 leaves it unchanged)")
	flags.StringVar(&f.category, "category", "", "notification category id")
	flags.StringVar(&f.threadID, "thread-id", "", "thread id for grouping")
	flags.StringVar(&f.channelID, "channel-id", "", "Android channel id")
	flags.StringVar(&f.priority, "priority", "", "delivery priority (default|normal|high)")
	flags.StringVar(&f.interruptionLevel, "interruption-level", "", "interruption level (active|passive|time-sensitive|critical)")
	flags.StringToStringVar(&f.data, "data", nil, "custom data key=value pairs")
	flags.StringVar(&f.imageURL, "image", "", "image URL for rich content")
	flags.StringVar(&f.color, "color", "", "Android accent color hex")
	flags.BoolVar(&f.mutableContent, "mutable-content", false, "set mutable-content")
	flags.BoolVar(&f.contentAvailable, "content-available", false, "set content-available (background delivery)")
	flags.IntVar(&f.ttl, "ttl", 0, "seconds the notification may stay queued")
	flags.IntVar(&f.expiration, "expiration", 0, "expiration as a Unix timestamp")
}

func (f *notificationFlags) request() *push.NotificationRequest {
	req := &push.NotificationRequest{
		Title:             f.title,
		Subtitle:          f.subtitle,
		Body:              f.body,
		Sound:             f.sound,
		Category:          f.category,
		ThreadID:          f.threadID,
		ChannelID:         f.channelID,
		Priority:          push.Priority(f.priority),
		InterruptionLevel: push.InterruptionLevel(f.interruptionLevel),
		Data:              f.data,
		ImageURL:          f.imageURL,
		Color:             f.color,
		MutableContent:    f.mutableContent,
		ContentAvailable:  f.contentAvailable,
		TTL:               f.ttl,
		Expiration:        f.expiration,
	}
	if f.badge >= 0 {
		badge := f.badge
		req.Badge = &badge
	}
	return req
}
