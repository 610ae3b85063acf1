package commands

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	toggleCommand    = "toggle-prompt"
	clientBufferSize = 8192
)

var clientAddr string

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Interactive client for a running stash server",
	Long: `Connect to a stash server and enter an interactive session.

Each input line is sent as one command; the server's reply is printed
as-is. The prompt is off by default, type toggle-prompt to switch it.

Examples:
  stash client
  stash client --addr bookmarks.example.com:7777`,
	RunE: runClient,
}

func init() {
	clientCmd.Flags().StringVar(&clientAddr, "addr", "localhost:7777", "server address")
}

func runClient(cmd *cobra.Command, args []string) error {
	conn, err := net.Dial("tcp", clientAddr)
	if err != nil {
		fmt.Println("A problem occurred with the network communication.")
		return err
	}
	defer conn.Close()

	fmt.Println("Welcome!")
	fmt.Println("Type help to list the available commands.")
	fmt.Println("Type toggle-prompt to toggle the CLI prompt.")

	prompt := false
	in := bufio.NewScanner(os.Stdin)
	buf := make([]byte, clientBufferSize)

	for {
		if prompt {
			fmt.Print("> ")
		}

		if !in.Scan() {
			return in.Err()
		}
		line := in.Text()

		if strings.EqualFold(line, toggleCommand) {
			prompt = !prompt
			continue
		}

		if _, err := conn.Write([]byte(line)); err != nil {
			fmt.Println("A problem occurred with the network communication.")
			return err
		}

		n, err := conn.Read(buf)
		if err != nil {
			fmt.Println("A problem occurred with the network communication.")
			return err
		}

		fmt.Println(string(buf[:n]))
	}
}
