package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/talkincode/shopgen/internal/generator"
	"go.uber.org/zap"
)

// TopicStage carries (stage string, rows int) after each generation phase.
const TopicStage = "pipeline:stage"

func newEventBus() EventBus.Bus {
	bus := EventBus.New()
	_ = bus.Subscribe(TopicStage, func(stage string, rows int) {
		zap.L().Info("generation stage finished",
			zap.String("namespace", "generator"),
			zap.String("stage", stage),
			zap.Int("rows", rows))
	})
	return bus
}

// stageHook forwards generator progress to the event bus.
func (a *Application) stageHook() generator.StageHook {
	return func(stage string, rows int) {
		a.bus.Publish(TopicStage, stage, rows)
	}
}
