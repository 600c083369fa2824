package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/XR-lab/LookingGlass/remote"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "lookingglass.ini", "配置文件路径")
	broker := flag.String("broker", "", "MQTT Broker 地址，覆盖配置")
	topic := flag.String("topic", "", "主题前缀，覆盖配置")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	settings := cfg.Remote
	if *broker != "" {
		settings.Broker = *broker
	}
	if *topic != "" {
		settings.Topic = strings.TrimSuffix(*topic, "/")
	}
	settings.ClientID = fmt.Sprintf("lkg-remote-%d", time.Now().Unix())

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	// 1. 连接 Broker
	client, err := remote.Dial(settings, log)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	// 2. 订阅播放器状态
	err = client.SubscribeStatus(func(payload []byte) {
		status, err := remote.DecodeStatus(payload)
		if err != nil {
			fmt.Printf("\n📥 状态: %s\n指令 > ", payload)
			return
		}
		fmt.Printf("\n📥 状态: playing=%v mode=%s\n指令 > ", status.Playing, status.Mode)
	})
	if err != nil {
		fmt.Printf("⚠️ %v\n", err)
	}

	fmt.Println("🎮 [Remote] Looking Glass 遥控器已启动")
	fmt.Printf("🔌 Broker: %s  主题: %s\n", settings.Broker, client.Topic())
	fmt.Println("-------------------------------------------")
	fmt.Println("命令列表:")
	fmt.Println("  start [window|viewport]    -> 开始播放")
	fmt.Println("  stop                       -> 停止播放")
	fmt.Println("  restart [window|viewport]  -> 重新开始")
	fmt.Println("  q                          -> 退出遥控器")
	fmt.Println("-------------------------------------------")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("指令 > ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		if parts[0] == "q" || parts[0] == "exit" {
			fmt.Println("👋 退出遥控器")
			return
		}

		cmd := remote.Command{Action: remote.Action(strings.ToLower(parts[0]))}
		if len(parts) > 1 {
			cmd.Mode = parts[1]
		}
		if err := remote.Validate(cmd); err != nil {
			fmt.Printf("❓ %v\n", err)
			continue
		}

		payload, err := json.Marshal(cmd)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			continue
		}
		if err := client.PublishCommand(payload); err != nil {
			fmt.Printf("❌ 执行失败: %v (请确认播放器已启动且开启了远程控制)\n", err)
			continue
		}
		fmt.Printf("📤 已发送: %s\n", payload)
	}
}
