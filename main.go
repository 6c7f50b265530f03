package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sreehari-M-dev/LOGI-tests/auth"
	"github.com/Sreehari-M-dev/LOGI-tests/caching"
	"github.com/Sreehari-M-dev/LOGI-tests/config"
	"github.com/Sreehari-M-dev/LOGI-tests/database"
	"github.com/Sreehari-M-dev/LOGI-tests/logger"
	"github.com/Sreehari-M-dev/LOGI-tests/util/random"
	"github.com/Sreehari-M-dev/LOGI-tests/util/token"
	"github.com/Sreehari-M-dev/LOGI-tests/web"
	"github.com/Sreehari-M-dev/LOGI-tests/web/cache"
	"github.com/Sreehari-M-dev/LOGI-tests/web/middleware"
	"github.com/Sreehari-M-dev/LOGI-tests/web/service"

	"github.com/spf13/cobra"
)

// server is implemented by both the auth and the logbook server.
type server interface {
	Start() error
	Stop() error
}

func initRuntime() {
	if err := config.Load(); err != nil {
		log.Fatal(err)
	}
	level, err := logger.LevelOf(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)

	if err := database.InitDB(config.GetDatabaseConfig()); err != nil {
		log.Fatal(err)
	}
}

func newIssuer() *token.Issuer {
	secret := config.GetTokenSecret()
	if secret == "" {
		if !config.IsDebug() {
			log.Fatal("LOGI_TOKEN_SECRET must be set")
		}
		secret = random.Seq(32)
		logger.Warning("LOGI_TOKEN_SECRET is empty, using a random secret; tokens will not survive a restart")
	}
	return token.NewIssuer(secret, config.GetTokenTTL())
}

func newRateStore() middleware.RateStore {
	addr := config.GetRedisAddr()
	if addr == "" {
		store := caching.NewCache()
		if err := store.Init(time.Minute); err != nil {
			log.Fatal(err)
		}
		return store
	}
	if err := cache.InitRedis(context.Background(), addr); err != nil {
		log.Fatal("connect redis: ", err)
	}
	return cache.NewRateStore(cache.GetClient())
}

func runServers(withAuth, withLogbook bool) {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	initRuntime()
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close db err:", err)
		}
		if err := cache.Close(); err != nil {
			logger.Warning("close redis err:", err)
		}
		logger.CloseLogger()
	}()

	issuer := newIssuer()
	limiter := newRateStore()

	build := func() []server {
		var servers []server
		if withAuth {
			servers = append(servers, auth.NewServer(issuer, limiter))
		}
		if withLogbook {
			servers = append(servers, web.NewServer(issuer, limiter))
		}
		return servers
	}
	start := func(servers []server) bool {
		for _, s := range servers {
			if err := s.Start(); err != nil {
				log.Println(err)
				stop(servers)
				return false
			}
		}
		return true
	}

	servers := build()
	if !start(servers) {
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP, restarting servers")
			stop(servers)
			servers = build()
			if !start(servers) {
				return
			}
		default:
			logger.Infof("Received %v, shutting down", sig)
			stop(servers)
			return
		}
	}
}

func stop(servers []server) {
	for _, s := range servers {
		if err := s.Stop(); err != nil {
			logger.Warning("stop server err:", err)
		}
	}
}

func migrateDb() {
	initRuntime()
	defer database.CloseDB()

	fmt.Println("Start repairing indexes...")
	if err := database.RepairIndexes(); err != nil {
		log.Fatal(err)
	}
	indexes, err := database.ListIndexes()
	if err != nil {
		log.Fatal(err)
	}
	for _, idx := range indexes {
		fmt.Printf("%s.%s %v unique=%v\n", idx.Table, idx.Name, idx.Columns, idx.Unique)
	}
	fmt.Println("Migration done!")
}

func showUser(rgno int64) {
	initRuntime()
	defer database.CloseDB()

	userService := service.UserService{}
	user, err := userService.GetUserByRgno(rgno)
	if err != nil {
		fmt.Println("get user failed:", err)
		return
	}
	fmt.Println("name:", user.Name)
	fmt.Println("rgno:", user.Rgno)
	fmt.Println("role:", user.Role)
	fmt.Println("active:", user.IsActive)
	fmt.Println("created:", user.CreatedAt.Format(time.RFC3339))
}

func setPassword(rgno int64, password string) {
	initRuntime()
	defer database.CloseDB()

	userService := service.UserService{}
	if err := userService.SetPassword(rgno, password); err != nil {
		fmt.Println("set password failed:", err)
		return
	}
	fmt.Println("set password success")
}

func setActive(rgno int64, enable bool) {
	initRuntime()
	defer database.CloseDB()

	userService := service.UserService{}
	if err := userService.SetActive(rgno, enable); err != nil {
		fmt.Println("set active failed:", err)
		return
	}
	fmt.Printf("set active %v success\n", enable)
}

func main() {
	var rootCmd = &cobra.Command{
		Use: "logi",
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the auth and logbook servers",
		Run: func(cmd *cobra.Command, args []string) {
			runServers(true, true)
		},
	}

	var authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Run only the auth server",
		Run: func(cmd *cobra.Command, args []string) {
			runServers(true, false)
		},
	}

	var logbookCmd = &cobra.Command{
		Use:   "logbook",
		Short: "Run only the logbook server",
		Run: func(cmd *cobra.Command, args []string) {
			runServers(false, true)
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Repair legacy indexes and list the current ones",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show a user",
		Run: func(cmd *cobra.Command, args []string) {
			rgno, _ := cmd.Flags().GetInt64("rgno")
			showUser(rgno)
		},
	}
	showCmd.Flags().Int64("rgno", 0, "register number")

	var passwdCmd = &cobra.Command{
		Use:   "passwd",
		Short: "Set a user's password",
		Run: func(cmd *cobra.Command, args []string) {
			rgno, _ := cmd.Flags().GetInt64("rgno")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				fmt.Println("password is required")
				return
			}
			setPassword(rgno, password)
		},
	}
	passwdCmd.Flags().Int64("rgno", 0, "register number")
	passwdCmd.Flags().String("password", "", "new password")

	var activeCmd = &cobra.Command{
		Use:   "active",
		Short: "Enable or disable a user",
		Run: func(cmd *cobra.Command, args []string) {
			rgno, _ := cmd.Flags().GetInt64("rgno")
			enable, _ := cmd.Flags().GetBool("enable")
			setActive(rgno, enable)
		},
	}
	activeCmd.Flags().Int64("rgno", 0, "register number")
	activeCmd.Flags().Bool("enable", true, "allow the user to log in")

	for _, c := range []*cobra.Command{showCmd, passwdCmd, activeCmd} {
		_ = c.MarkFlagRequired("rgno")
	}
	userCmd.AddCommand(showCmd, passwdCmd, activeCmd)

	rootCmd.AddCommand(runCmd, authCmd, logbookCmd, migrateCmd, userCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
