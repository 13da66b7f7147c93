package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/betomoedano/quick-push/internal/store"
)

var namespaces = []string{
	store.NamespaceExpo,
	store.NamespaceNativePush,
	store.NamespaceLiveActivity,
	store.NamespaceFCM,
}

func validNamespace(ns string) error {
	for _, known := range namespaces {
		if ns == known {
			return nil
		}
	}
	return fmt.Errorf("unknown namespace %q (want one of %v)", ns, namespaces)
}

func newTokensCommand(a *app) *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Manage saved recipient tokens",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if parent := cmd.Root().PersistentPreRunE; parent != nil {
				if err := parent(cmd, args); err != nil {
					return err
				}
			}
			return validNamespace(namespace)
		},
	}
	cmd.PersistentFlags().StringVar(&namespace, "namespace", store.NamespaceExpo,
		fmt.Sprintf("token list to operate on %v", namespaces))

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved tokens in a namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := a.tokens.Load(namespace)
			if err != nil {
				return err
			}
			if len(saved) == 0 {
				fmt.Printf("no saved tokens in %s\n", namespace)
				return nil
			}
			for _, t := range saved {
				state := "enabled"
				if !t.Enabled {
					state = "disabled"
				}
				fmt.Printf("%s  %-8s  %-20s  %s\n", t.ID, state, t.Label, truncate(t.Token))
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <label> <token>",
		Short: "Save a new token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := a.tokens.Add(namespace, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("saved %s as %s\n", saved.Label, saved.ID)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a saved token by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid token id: %w", err)
			}
			return a.tokens.Remove(namespace, id)
		},
	}

	setEnabled := func(use, short string, enabled bool) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid token id: %w", err)
				}
				return a.tokens.SetEnabled(namespace, id, enabled)
			},
		}
	}

	cmd.AddCommand(
		list,
		add,
		remove,
		setEnabled("enable <id>", "Include a saved token in sends", true),
		setEnabled("disable <id>", "Exclude a saved token from sends", false),
	)
	return cmd
}
