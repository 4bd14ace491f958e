package main

import (
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	. "github.com/elijahnyp/audio_controller/util"
)

func subscribeCommandTopics() {
	for _, topic := range model.SubscribeTopics() {
		RegisterMQTTSubscription(topic, receiver)
	}
}

func rebuildRegistry() {
	registry.Build(model)
}

// Init starts the background routines.
func Init() {
	go CommandManagerRoutine()
}

func main() {
	LogInit("info")
	SetupConfig()
	RegisterNewConfigListener(func() { LogInit(Config.GetString("log_level")) })
	RegisterNewConfigListener(func() {
		if err := model.BuildModel(); err != nil {
			Logger.Error().Msgf("Error building model: %v", err)
		}
	})
	RegisterNewConfigListener(rebuildRegistry)

	if Config.GetBool("console") {
		// Bring-up mode: no broker, no monitor server, just a prompt.
		OnNewConfig()
		if err := RunConsole(); err != nil {
			Logger.Error().Msgf("console error: %v", err)
		}
		registry.Close()
		return
	}

	RegisterNewConfigListener(subscribeCommandTopics)
	RegisterMQTTConnectHook("haadvertise", func(client MQTT.Client) {
		AdvertiseHA(model.Amps, client)
	})
	RegisterMQTTConnectHook("state", func(client MQTT.Client) {
		PublishAllState()
	})
	RegisterNewConfigListener(MqttInit)
	OnNewConfig()
	Init()
	monitor := NewMonitorServer()
	monitor.AddHandler("/api/status", APISystemStatus)
	monitor.AddHandler("/ws", ServeWebSocket)
	if err := monitor.Start(); err != nil {
		Logger.Error().Msgf("Error starting monitor server: %v", err)
	}
	RegisterNewConfigListener(func() { monitor.Restart() })
	Logger.Info().Msg("ready")
	go OnlinePinger()
	go HAAdvertiser()
	select {} // block forever
}

// OnlinePinger republishes availability so late subscribers see us.
func OnlinePinger() {
	for {
		if token := Client.Publish(OnlineTopic, 0, false, "online"); token.Wait() && token.Error() != nil {
			Logger.Error().Msgf("Error publishing online message: %v", token.Error())
		}
		time.Sleep(10 * time.Second)
	}
}

// HAAdvertiser re-advertises Home Assistant discovery periodically.
func HAAdvertiser() {
	ticker := time.NewTicker(time.Duration(Config.GetInt("advertise_period")) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if Client != nil && Client.IsConnected() {
			Logger.Debug().Msg("Advertising Home Assistant discovery messages")
			AdvertiseHA(model.Amps, Client)
		}
	}
}
