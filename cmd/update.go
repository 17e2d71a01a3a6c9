package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minho/lingua/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check whether a newer release is available",
	RunE: func(cmd *cobra.Command, args []string) error {
		checker := selfupdate.NewChecker()
		res, err := checker.Check(cmd.Context(), &selfupdate.CheckInput{Version: version})
		if errors.Is(err, selfupdate.ErrDevBuild) {
			fmt.Println("Running a development build; nothing to compare against.")
			return nil
		}
		if err != nil {
			return err
		}

		if !res.UpdateAvailable {
			fmt.Printf("Already up to date (%s).\n", res.CurrentVersion)
			return nil
		}
		fmt.Printf("Update available: %s → %s\n", res.CurrentVersion, res.LatestVersion)
		fmt.Println("Download it from https://github.com/minho/lingua/releases/latest")
		return nil
	},
}
