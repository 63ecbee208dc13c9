package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

// cursorServerName is the key tmapmcp is registered under in Cursor.
const cursorServerName = "tmap-api"

// cursorServer is one entry of the mcpServers object in Cursor's mcp.json.
type cursorServer struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

func setupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with editors",
	}
	cmd.AddCommand(setupCursorCmd(a))
	return cmd
}

func setupCursorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cursor",
		Short: "Register tmapmcp with the Cursor editor",
		Long: `Adds a "tmap-api" entry to Cursor's mcp.json. Other registered servers are
left untouched. Restart Cursor and select the tmap-api server afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("mcp-config")
			list, _ := cmd.Flags().GetBool("list")
			command, _ := cmd.Flags().GetString("command")

			if path == "" {
				var err error
				if path, err = homePath(".cursor", "mcp.json"); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()

			if list {
				names, err := cursorServers(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "MCP servers in %s:\n", path)
				for _, name := range names {
					fmt.Fprintf(out, "  %s\n", name)
				}
				return nil
			}

			if command == "" {
				exe, err := os.Executable()
				if err != nil {
					return fmt.Errorf("find executable: %w", err)
				}
				command = filepath.Join(filepath.Dir(exe), "tmapmcp")
			}
			server := cursorServer{Command: command}
			if key := a.v.GetString("app-key"); key != "" {
				server.Env = map[string]string{"TMAP_APP_KEY": key}
			}
			if err := registerCursorServer(path, cursorServerName, server); err != nil {
				return err
			}
			fmt.Fprintf(out, "Registered %s in %s\n", cursorServerName, path)
			if server.Env == nil {
				fmt.Fprintln(out, "Set TMAP_APP_KEY in the server environment before using it.")
			}
			return nil
		},
	}
	cmd.Flags().String("mcp-config", "", "Cursor MCP config (default $HOME/.cursor/mcp.json)")
	cmd.Flags().String("command", "", "tmapmcp binary to launch (default next to tmapctl)")
	cmd.Flags().Bool("list", false, "list the registered servers and exit")
	return cmd
}

// readCursorConfig returns the top-level objects of mcp.json and its
// mcpServers entries. A missing file reads as empty.
func readCursorConfig(path string) (map[string]json.RawMessage, map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}
	servers := map[string]json.RawMessage{}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, servers, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if raw, ok := doc["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return nil, nil, fmt.Errorf("parse %s mcpServers: %w", path, err)
		}
	}
	return doc, servers, nil
}

func cursorServers(path string) ([]string, error) {
	_, servers, err := readCursorConfig(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// registerCursorServer adds or replaces one server entry and rewrites the
// file, keeping every other key.
func registerCursorServer(path, name string, server cursorServer) error {
	doc, servers, err := readCursorConfig(path)
	if err != nil {
		return err
	}
	entry, err := json.Marshal(server)
	if err != nil {
		return err
	}
	servers[name] = entry
	if doc["mcpServers"], err = json.Marshal(servers); err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
