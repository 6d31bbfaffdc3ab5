package main

import (
	"github.com/germanamz/terrarium/pkg/tools/controltools"
	"github.com/germanamz/terrarium/pkg/tools/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve controller tools over the Model Context Protocol on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.setup()
			if err != nil {
				return err
			}

			tb := controltools.Tools(rt.client)
			if readOnly {
				tb = tb.ReadOnly()
			}

			srv := mcpserver.New("terrarium", version, tb, rt.log.Named("mcp"))
			rt.log.Infow("mcp_serving", "base_url", rt.client.BaseURL(), "tools", len(tb.Tools()), "read_only", readOnly)

			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&readOnly, "read-only", false, "only expose tools that do not switch relays or mode")
	return cmd
}
