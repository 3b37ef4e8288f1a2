package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/abdul-hamid-achik/hitreq/packages/schema"
	"github.com/spf13/cobra"
)

func newRPCCmd(opts *globalOptions) *cobra.Command {
	var (
		id     string
		params string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "rpc <url> <method> [key=value | key:=json ...]",
		Short: "Send a JSON-RPC 2.0 call",
		Long: `Send a JSON-RPC 2.0 call. Params come from --params as raw JSON, or
from key=value pairs as a named params object. With neither, params is
an empty array.

The response body must be JSON; anything else exits with code 5.

Examples:
  hitreq rpc http://localhost:8545 eth_blockNumber
  hitreq rpc http://localhost:8080/rpc user.get id:=1 --id auto
  hitreq rpc http://localhost:8080/rpc sum --params '[1,2]' --strict`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}

			var p any
			switch {
			case params != "" && len(args) > 2:
				return withExit(ExitUsageError, fmt.Errorf("--params cannot be combined with key=value pairs"))
			case params != "":
				if err := json.Unmarshal([]byte(s.resolver.Resolve(params)), &p); err != nil {
					return withExit(ExitUsageError, fmt.Errorf("invalid --params: %w", err))
				}
			case len(args) > 2:
				data, err := parseData(args[2:], s.resolver)
				if err != nil {
					return err
				}
				p = map[string]any(data)
			}

			resp, err := s.client.JSONRPC(cmd.Context(), s.resolver.Resolve(args[0]), args[1], p, parseRPCID(id))
			if err != nil {
				return s.fail(err)
			}

			if strict {
				if err := schema.RPCResponse().Validate(resp.Body); err != nil {
					s.formatter.FormatError(err)
					return reported(ExitSchemaError, err)
				}
			}
			return s.report(resp)
		},
	}

	cmd.Flags().StringVar(&id, "id", "1", "Request id: a number, a string, 'null' or 'auto' for a UUID")
	cmd.Flags().StringVar(&params, "params", "", "Params as raw JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Validate the JSON-RPC 2.0 response envelope")

	return cmd
}
