// A small terminal client for the chat server. It joins one room,
// renders incoming events, and turns typed lines into messages.
// Commands: /who, /join <room>, /leave, /quit.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"room-chat/domain"
	"room-chat/ws"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	url := fmt.Sprintf("%s?token=%s", cfg.ServerURL, cfg.Token)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	room := cfg.Room
	if err := writeFrame(conn, ws.EventJoinRoom, room); err != nil {
		return err
	}

	var mu sync.Mutex
	var members []string

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			render(payload, &mu, &members)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "/quit":
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			<-done
			return nil
		case line == "/who":
			mu.Lock()
			printMembers(room, members)
			mu.Unlock()
		case line == "/leave":
			if err := writeFrame(conn, ws.EventLeaveRoom, room); err != nil {
				return err
			}
		case strings.HasPrefix(line, "/join "):
			room = domain.NormalizeRoom(strings.TrimPrefix(line, "/join "))
			if err := writeFrame(conn, ws.EventJoinRoom, room); err != nil {
				return err
			}
		case line != "":
			_ = writeFrame(conn, ws.EventTyping, room)
			if err := writeFrame(conn, ws.EventChatMsg, ws.PostMessagePayload{Room: room, Text: line}); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func writeFrame(conn *websocket.Conn, eventName string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return conn.WriteJSON(ws.Frame{Event: eventName, Data: raw})
}

func render(payload []byte, mu *sync.Mutex, members *[]string) {
	var frame ws.Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return
	}

	switch frame.Event {
	case ws.EventChatHistory:
		var history []domain.Message
		if err := json.Unmarshal(frame.Data, &history); err != nil {
			return
		}
		for _, message := range history {
			printMessage(message)
		}
	case ws.EventChatMsg:
		var message domain.Message
		if err := json.Unmarshal(frame.Data, &message); err != nil {
			return
		}
		printMessage(message)
	case ws.EventPresence:
		var current []string
		if err := json.Unmarshal(frame.Data, &current); err != nil {
			return
		}
		mu.Lock()
		*members = current
		mu.Unlock()
	case ws.EventSystemMsg:
		var notice string
		if err := json.Unmarshal(frame.Data, &notice); err != nil {
			return
		}
		color.Yellow.Println(notice)
	case ws.EventTyping:
		var typing ws.TypingPayload
		if err := json.Unmarshal(frame.Data, &typing); err != nil {
			return
		}
		color.Gray.Printf("%s is typing...\n", typing.Username)
	}
}

func printMessage(message domain.Message) {
	color.Cyan.Printf("%s ", message.Sender)
	fmt.Printf("%s ", message.Content)
	color.Gray.Printf("(%s)\n", message.CreatedAt.Local().Format("15:04:05"))
}

func printMembers(room string, members []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Room", "Member"})
	for _, member := range members {
		table.Append([]string{room, member})
	}
	table.Render()
}
