package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/betomoedano/quick-push/internal/curl"
	"github.com/betomoedano/quick-push/internal/dispatch"
	"github.com/betomoedano/quick-push/internal/payload"
	"github.com/betomoedano/quick-push/internal/provider/apns"
	"github.com/betomoedano/quick-push/internal/store"
	"github.com/betomoedano/quick-push/pkg/push"
)

func newAPNsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apns",
		Short: "Send native pushes directly to APNs",
	}
	cmd.AddCommand(newAPNsSendCommand(a))
	return cmd
}

func newAPNsSendCommand(a *app) *cobra.Command {
	var flags notificationFlags
	var pushType string
	var priority int
	var printCurl bool

	cmd := &cobra.Command{
		Use:   "send [device-token...]",
		Short: "Send a push to one or more device tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipients, err := a.recipients(args, store.NamespaceNativePush)
			if err != nil {
				return err
			}
			apnsType := payload.APNsPushType(pushType)
			if apnsType != payload.APNsPushAlert && apnsType != payload.APNsPushBackground {
				return fmt.Errorf("push type must be alert or background, got %q", pushType)
			}

			req := flags.request()
			if apnsType == payload.APNsPushAlert {
				if err := req.Validate(); err != nil {
					return err
				}
			}
			body := payload.BuildAPNsAlert(req, apnsType)

			client, err := apns.NewClient(apns.Config{Credential: a.cfg.APNs}, a.logger)
			if err != nil {
				return err
			}
			opts := apns.SendOptions{PushType: apnsType, Priority: priority}

			if printCurl {
				jwt, err := client.Bearer(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Println(curl.APNs(
					a.cfg.APNs.Environment.Hostname(), recipients[0], jwt,
					client.Topic(apnsType), pushType, priority, body,
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
	flags.register(cmd)
	cmd.Flags().StringVar(&pushType, "push-type", "alert", "apns-push-type header (alert|background)")
	cmd.Flags().IntVar(&priority, "apns-priority", 10, "apns-priority header")
	cmd.Flags().BoolVar(&printCurl, "curl", false, "print the equivalent curl command instead of sending")
	return cmd
}
