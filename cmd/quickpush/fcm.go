package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/betomoedano/quick-push/internal/curl"
	"github.com/betomoedano/quick-push/internal/dispatch"
	"github.com/betomoedano/quick-push/internal/payload"
	"github.com/betomoedano/quick-push/internal/provider/fcm"
	"github.com/betomoedano/quick-push/internal/store"
	"github.com/betomoedano/quick-push/pkg/push"
)

func newFCMCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fcm",
		Short: "Send through the FCM v1 API",
	}
	cmd.AddCommand(newFCMSendCommand(a))
	return cmd
}

func newFCMSendCommand(a *app) *cobra.Command {
	var flags notificationFlags
	var printCurl bool

	cmd := &cobra.Command{
		Use:   "send [registration-token...]",
		Short: "Send a push to one or more registration tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipients, err := a.recipients(args, store.NamespaceFCM)
			if err != nil {
				return err
			}
			req := flags.request()
			if err := req.Validate(); err != nil {
				return err
			}

			client, err := fcm.NewClient(fcm.Config{Credential: a.cfg.FCM}, a.logger)
			if err != nil {
				return err
			}

			if printCurl {
				bearer, err := client.Bearer(cmd.Context())
				if err != nil {
					return err
				}
				body := payload.FCMRequestBody{Message: payload.BuildFCM(req, recipients[0])}
				fmt.Println(curl.FCM(a.cfg.FCM.ProjectID, bearer, body))
				return nil
			}

			coordinator := dispatch.NewCoordinator(a.logger)
			agg := coordinator.SendToMany(cmd.Context(), recipients,
				func(ctx context.Context, recipient string) (*push.ProviderResponse, error) {
					return client.Send(ctx, payload.BuildFCM(req, recipient))
				})
			return printAggregate(agg)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&printCurl, "curl", false, "print the equivalent curl command instead of sending")
	return cmd
}
