// internal/cli/call.go
package toolgate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/toolgate/internal/logging"
	"github.com/mwiater/toolgate/internal/rpc"
)

var (
	callArgs  string
	callURL   string
	callToken string
)

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Invoke one tool and print the response",
	Long: "Invoke one tool through the full dispatch path. Without --url the " +
		"call runs in-process against the configured registry; with --url the " +
		"request is posted to a running gateway.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arguments := json.RawMessage(callArgs)
		if !json.Valid(arguments) {
			return fmt.Errorf("--args must be a JSON object")
		}

		req := rpc.Request{
			JSONRPC: rpc.Version,
			ID:      json.RawMessage(`"cli"`),
			Method:  "tools/call",
		}
		params, err := json.Marshal(map[string]any{
			"name":      args[0],
			"arguments": arguments,
		})
		if err != nil {
			return err
		}
		req.Params = params

		payload, err := json.Marshal(req)
		if err != nil {
			return err
		}

		var resp rpc.Response
		if callURL != "" {
			resp, err = postCall(cmd.Context(), callURL, callToken, payload)
		} else {
			resp, err = inProcessCall(payload)
		}
		if err != nil {
			return err
		}

		return printResponse(cmd.OutOrStdout(), resp)
	},
}

func init() {
	callCmd.Flags().StringVar(&callArgs, "args", "{}", "tool arguments as a JSON object")
	callCmd.Flags().StringVar(&callURL, "url", "", "base URL of a running gateway (e.g., http://localhost:8089)")
	callCmd.Flags().StringVar(&callToken, "token", "", "bearer token for --url")
	rootCmd.AddCommand(callCmd)
}

func inProcessCall(payload []byte) (rpc.Response, error) {
	cfg, err := getConfig()
	if err != nil {
		return rpc.Response{}, err
	}
	if err := logging.InitQuiet(""); err != nil {
		return rpc.Response{}, err
	}
	d, err := buildDispatcher(cfg, "inproc")
	if err != nil {
		return rpc.Response{}, err
	}
	return d.Handle(context.Background(), payload), nil
}

func postCall(ctx context.Context, baseURL, token string, payload []byte) (rpc.Response, error) {
	client := &http.Client{Timeout: 120 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/rpc", bytes.NewReader(payload))
	if err != nil {
		return rpc.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := client.Do(req)
	if err != nil {
		return rpc.Response{}, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return rpc.Response{}, err
	}
	if httpResp.StatusCode != http.StatusOK {
		return rpc.Response{}, fmt.Errorf("gateway returned %s: %s", httpResp.Status, bytes.TrimSpace(body))
	}

	var resp rpc.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return rpc.Response{}, fmt.Errorf("undecodable gateway response: %w", err)
	}
	return resp, nil
}

func printResponse(out io.Writer, resp rpc.Response) error {
	if resp.Error != nil {
		color.Red("error %d: %s", resp.Error.Code, resp.Error.Message)
		if resp.Error.Data != nil {
			data, err := json.MarshalIndent(resp.Error.Data, "", "  ")
			if err == nil {
				fmt.Fprintln(out, string(data))
			}
		}
		return fmt.Errorf("tool call failed")
	}

	raw, err := json.Marshal(resp.Result)
	if err != nil {
		return err
	}
	var result rpc.CallResult
	if err := json.Unmarshal(raw, &result); err != nil || len(result.Content) == 0 {
		fmt.Fprintln(out, string(raw))
		return nil
	}
	for _, block := range result.Content {
		fmt.Fprintln(out, block.Text)
	}
	return nil
}
