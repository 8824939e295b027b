package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"diet-photo-diary/internal/api"
	"diet-photo-diary/internal/config"
	"diet-photo-diary/internal/demo"
	"diet-photo-diary/internal/diary"
	"diet-photo-diary/internal/notify"
	"diet-photo-diary/internal/session"
	"diet-photo-diary/internal/web"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		RunE:  runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: $LISTEN_ADDR or :8501)")
	cmd.Flags().Bool("demo", false, "Serve built-in demo data instead of calling the backend")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return err
	}

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.ListenAddr = addr
	}
	if demoFlag, _ := cmd.Flags().GetBool("demo"); demoFlag {
		cfg.DemoMode = true
	}

	// The backend is chosen once here; everything downstream sees only the
	// diary ports.
	var (
		provider      diary.Provider
		authenticator diary.Authenticator
	)
	if cfg.DemoMode {
		p := demo.NewProvider()
		provider, authenticator = p, p
		log.Println("Demo mode: serving fixture data, no backend calls")
	} else {
		c := api.NewClient(cfg)
		provider, authenticator = c, c
		log.Printf("Using backend at %s", cfg.APIBaseURL)
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.TelegramBotToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return err
		}
		notifier = tg
	}

	sessions := session.NewStore(authenticator)
	server := web.NewServer(sessions, provider, notifier)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("Dashboard listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return err
	}

	log.Println("Server exiting")
	return nil
}
