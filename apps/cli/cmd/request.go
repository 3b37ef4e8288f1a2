package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitreq/packages/http"
	"github.com/spf13/cobra"
)

// newVerbCmd builds the get, post, put and delete commands.
func newVerbCmd(opts *globalOptions, verb string) *cobra.Command {
	var (
		asJSON bool
		format string
	)

	method := strings.ToUpper(verb)
	cmd := &cobra.Command{
		Use:   verb + " <url> [key=value | key:=json ...]",
		Short: fmt.Sprintf("Send a %s request", method),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}

			url := s.resolver.Resolve(args[0])
			data, err := parseData(args[1:], s.resolver)
			if err != nil {
				return err
			}

			f, err := http.ParseFormat(format)
			if err != nil {
				return withExit(ExitUsageError, err)
			}
			if asJSON {
				f = http.FormatJSON
			}

			ctx := cmd.Context()
			var resp *http.Response
			switch method {
			case "GET":
				resp, err = s.client.Get(ctx, url, data)
			case "POST":
				resp, err = s.client.Post(ctx, url, data, f)
			case "PUT":
				resp, err = s.client.Put(ctx, url, data, f)
			case "DELETE":
				resp, err = s.client.Delete(ctx, url, data, f)
			}
			if err != nil {
				return s.fail(err)
			}
			return s.report(resp)
		},
	}

	switch method {
	case "GET":
		cmd.Long = `Send a GET request. Data pairs are encoded into the query string,
appended with '&' when the URL already has one.

Examples:
  hitreq get https://api.example.com/users page=2 tags[]=a
  hitreq get {{baseUrl}}/health --env-file .env -x status`
	default:
		cmd.Long = fmt.Sprintf(`Send a %s request. Data pairs are sent as a form body unless
--json is given.

Examples:
  hitreq %s https://api.example.com/users name=alice 'age:=30' --json
  hitreq %s https://api.example.com/users/1 -x body.id`, method, verb, verb)
		cmd.Flags().BoolVar(&asJSON, "json", false, "Send data as a JSON body")
		cmd.Flags().StringVar(&format, "format", "", "Body format: query-string, json")
	}

	return cmd
}
