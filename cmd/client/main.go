package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/palemoky/bingo-client/internal/authority"
	"github.com/palemoky/bingo-client/internal/config"
	"github.com/palemoky/bingo-client/internal/host"
	"github.com/palemoky/bingo-client/internal/logger"
	"github.com/palemoky/bingo-client/internal/session"
	"github.com/palemoky/bingo-client/internal/sound"
	"github.com/palemoky/bingo-client/internal/transport"
	"github.com/palemoky/bingo-client/internal/ui"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	origin := flag.String("origin", "", "服务地址，覆盖配置文件")
	soundDir := flag.String("sounds", "", "音效目录，缺省使用合成音")
	debug := flag.Bool("debug", false, "输出调试日志")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}
	if err := config.ApplyEnv(cfg, ".env"); err != nil {
		log.Fatalf("读取环境变量失败: %v", err)
	}
	if *origin != "" {
		cfg.Server.Origin = *origin
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置无效: %v", err)
	}

	if err := logger.Init(cfg.UI.LogDir); err != nil {
		log.Printf("日志初始化失败: %v", err)
	}
	defer logger.Close()
	logger.SetDebug(cfg.UI.Debug || *debug)

	var player host.Player
	if cfg.UI.Sound {
		sm := sound.NewManager()
		if err := sm.Init(*soundDir); err != nil {
			logger.LogError("sound disabled: %v", err)
		} else {
			defer sm.Close()
			player = sm
		}
	}

	terminal := host.NewTerminal(host.TerminalOptions{
		PlayerID:   cfg.Player.ID,
		PlayerName: cfg.Player.Name,
		Theme:      cfg.UI.Theme,
		Sound:      player,
	})

	auth := authority.NewClient(cfg.Server.Origin, cfg.Server.HTTPTimeoutDuration())
	channel := transport.NewClient(cfg.Server.Origin, transport.OptionsFromConfig(cfg))
	coord := session.New(auth, channel, terminal, session.Options{
		Game:     cfg.Game,
		PlayerID: cfg.Player.ID,
	})

	model := ui.NewBingoModel(coord, terminal.ColorScheme())
	coord.OnSnapshot(model.Publish)

	// 优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	g.Go(func() error {
		return coord.Run(ctx)
	})
	g.Go(func() error {
		// 界面退出后停止协调器
		defer stop()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.LogError("client exited: %v", err)
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
