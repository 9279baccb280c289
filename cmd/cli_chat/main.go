package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"chat-relay/internal/app"
	"chat-relay/internal/config"
	"chat-relay/internal/domain"
	"chat-relay/internal/llm"
	"chat-relay/internal/service"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := app.NewLogger(cfg)
	defer logger.Sync()

	redisClient, err := app.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	historyRepo, err := app.NewHistoryRepository(ctx, cfg, redisClient, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer historyRepo.Close()

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	historySvc := service.NewHistoryService(historyRepo, nil, logger)
	chatSvc := service.NewChatService(llmClient, historySvc, logger)

	clientID := ""
	if len(os.Args) > 1 {
		clientID = os.Args[1]
	}
	clientID = service.ResolveClientID(clientID)

	fmt.Printf("===== Chat Relay (cliente %s) =====\n", clientID)
	fmt.Println("Comandos: /historial, /nuevo, /salir")

	var conversation []domain.Message
	for {
		fmt.Print("Tu > ")
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Fatalf("leer entrada: %v", err)
		}
		input := strings.TrimSpace(line)

		switch strings.ToLower(input) {
		case "":
			continue
		case "/salir", "salir":
			fmt.Println("Saliendo del chat...")
			return
		case "/nuevo":
			conversation = nil
			clientID = service.ResolveClientID("")
			fmt.Printf("Nueva conversacion, cliente %s\n", clientID)
			continue
		case "/historial":
			if err := printHistory(ctx, historySvc, clientID); err != nil {
				fmt.Printf("Error leyendo historial: %v\n", err)
			}
			continue
		}

		conversation = append(conversation, domain.Message{Role: domain.RoleUser, Content: input})
		fmt.Print("Modelo > ")
		res, err := chatSvc.Relay(ctx, clientID, conversation, func(fragment string) error {
			fmt.Print(fragment)
			return nil
		})
		fmt.Println()
		if err != nil {
			fmt.Printf("Error en chat: %v\n", err)
			// Se descarta el turno para que el proximo intento no lo duplique.
			conversation = conversation[:len(conversation)-1]
			continue
		}
		conversation = append(conversation, domain.Message{Role: domain.RoleAssistant, Content: res.Response})
	}
}

func printHistory(ctx context.Context, historySvc *service.HistoryService, clientID string) error {
	records, err := historySvc.List(ctx, clientID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Sin registros para este cliente.")
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
