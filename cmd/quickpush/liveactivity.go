package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/betomoedano/quick-push/internal/curl"
	"github.com/betomoedano/quick-push/internal/dispatch"
	"github.com/betomoedano/quick-push/internal/payload"
	"github.com/betomoedano/quick-push/internal/provider/apns"
	"github.com/betomoedano/quick-push/internal/store"
	"github.com/betomoedano/quick-push/pkg/push"
)

func newLiveActivityCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live-activity",
		Short: "Drive iOS Live Activities over APNs",
	}
	cmd.AddCommand(newLiveActivitySendCommand(a))
	return cmd
}

func newLiveActivitySendCommand(a *app) *cobra.Command {
	var (
		event          string
		contentState   string
		attributes     string
		attributesType string
		alertTitle     string
		alertBody      string
		alertSound     string
		dismissalDate  int64
		staleDate      int64
		relevanceScore float64
		timestamp      int64
		printCurl      bool
	)

	cmd := &cobra.Command{
		Use:   "send [push-to-start-or-update-token...]",
		Short: "Start, update, or end a Live Activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipients, err := a.recipients(args, store.NamespaceLiveActivity)
			if err != nil {
				return err
			}

			req := &push.LiveActivityRequest{
				Event:          push.LiveActivityEvent(event),
				AttributesType: attributesType,
				Timestamp:      timestamp,
				DismissalDate:  dismissalDate,
				StaleDate:      staleDate,
			}
			if req.Timestamp == 0 {
				req.Timestamp = time.Now().Unix()
			}
			if err := json.Unmarshal([]byte(contentState), &req.ContentState); err != nil {
				return fmt.Errorf("invalid --content-state JSON: %w", err)
			}
			if attributes != "" {
				if err := json.Unmarshal([]byte(attributes), &req.Attributes); err != nil {
					return fmt.Errorf("invalid --attributes JSON: %w", err)
				}
			}
			if alertTitle != "" || alertBody != "" {
				req.Alert = &push.LiveActivityAlert{
					Title: alertTitle,
					Body:  alertBody,
					Sound: alertSound,
				}
			}
			if cmd.Flags().Changed("relevance-score") {
				req.RelevanceScore = &relevanceScore
			}
			if err := req.Validate(); err != nil {
				return err
			}
			body := payload.BuildLiveActivity(req)

			client, err := apns.NewClient(apns.Config{Credential: a.cfg.APNs}, a.logger)
			if err != nil {
				return err
			}
			opts := apns.SendOptions{PushType: payload.APNsPushLiveActivity, Priority: 10}

			if printCurl {
				jwt, err := client.Bearer(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Println(curl.APNs(
					a.cfg.APNs.Environment.Hostname(), recipients[0], jwt,
					client.Topic(payload.APNsPushLiveActivity),
					string(payload.APNsPushLiveActivity), 10, body,
				))
				return nil
			}

			coordinator := dispatch.NewCoordinator(a.logger)
			agg := coordinator.SendToMany(cmd.Context(), recipients,
				func(ctx context.Context, recipient string) (*push.ProviderResponse, error) {
					return client.Send(ctx, body, recipient, opts)
				})
			return printAggregate(agg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&event, "event", "update", "lifecycle event (start|update|end)")
	flags.StringVar(&contentState, "content-state", "{}", "content state as JSON")
	flags.StringVar(&attributes, "attributes", "", "activity attributes as JSON (start only)")
	flags.StringVar(&attributesType, "attributes-type", "", "ActivityAttributes type name (start only)")
	flags.StringVar(&alertTitle, "alert-title", "", "alert title shown on start")
	flags.StringVar(&alertBody, "alert-body", "", "alert body shown on start")
	flags.StringVar(&alertSound, "alert-sound", "", "alert sound played on start")
	flags.Int64Var(&dismissalDate, "dismissal-date", 0, "Unix timestamp to dismiss at (end only, default now+5s)")
	flags.Int64Var(&staleDate, "stale-date", 0, "Unix timestamp after which the activity is stale")
	flags.Float64Var(&relevanceScore, "relevance-score", 0, "relevance score for lock screen ordering")
	flags.Int64Var(&timestamp, "timestamp", 0, "event timestamp (default now)")
	flags.BoolVar(&printCurl, "curl", false, "print the equivalent curl command instead of sending")
	return cmd
}
