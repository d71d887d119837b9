package service

import (
	"context"
	"strings"
	"time"

	"seedbreed/internal/domain"
	"seedbreed/internal/lineage"
	"seedbreed/internal/repository"

	"go.uber.org/zap"
)

// 下游列表页面，流转完成后跳转
const (
	RedirectSowings       = "/sowings"
	RedirectTestRecords   = "/test-records"
	RedirectSeedInventory = "/seed-inventory"
)

// Handoff 流转结果：新生成的下游记录交给下游列表页面，由其在加载时合并
type Handoff[T any] struct {
	Record   T      `json:"record"`
	Redirect string `json:"redirect"`
	// Replaced 下游集合中已有同种植编号的记录并被覆盖
	Replaced bool `json:"replaced"`
}

// SowingInput 生成播种记录时填写的播种信息
type SowingInput struct {
	PlantingCode string `json:"plantingCode"`
	SowingAmount int    `json:"sowingAmount"`
	PlanCode     string `json:"planCode"`
	SowingTime   string `json:"sowingTime"`
}

// detail 种植编号缺省取上游编号，播种时间缺省取当天
func (in SowingInput) detail(code, today string) domain.SowingDetail {
	d := domain.SowingDetail{
		PlantingCode: strings.TrimSpace(in.PlantingCode),
		SowingAmount: in.SowingAmount,
		PlanCode:     strings.TrimSpace(in.PlanCode),
		SowingTime:   strings.TrimSpace(in.SowingTime),
	}
	if d.PlantingCode == "" {
		d.PlantingCode = code
	}
	if d.SowingTime == "" {
		d.SowingTime = today
	}
	return d
}

// SaveSeedInput 留种信息
type SaveSeedInput struct {
	Amount   int    `json:"amount"`
	SaveTime string `json:"saveTime"`
}

// publisher 发布流转事件；失败只记日志
type publisher struct {
	notifier lineage.Notifier
	logger   *zap.Logger
}

func (p publisher) publish(ctx context.Context, e lineage.Event) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Notify(ctx, e); err != nil {
		p.logger.Warn("Failed to publish lineage event",
			zap.String("event_id", e.EventID),
			zap.String("type", e.Type),
			zap.String("planting_code", e.PlantingCode),
			zap.Error(err),
		)
	}
}

// sowingGenerator 引种、纯化两条入口流程共用的“生成播种记录”步骤
type sowingGenerator struct {
	sowings repository.SowingRepository
	publisher
}

func (g sowingGenerator) generate(ctx context.Context, now time.Time, from domain.Record, build func(key int64) domain.SowingRecord) (*Handoff[domain.SowingRecord], error) {
	sowings, err := g.sowings.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	rec := build(repository.NewKeySeq(now, sowings).Next())
	sowings, replaced := lineage.Upsert(sowings, rec)
	if err := g.sowings.ReplaceAll(ctx, sowings); err != nil {
		return nil, err
	}

	g.publish(ctx, lineage.NewEvent(lineage.EventSowingGenerated, from, rec, replaced))
	g.logger.Info("Sowing record generated",
		zap.String("source", rec.Source),
		zap.Int64("source_key", from.RecordKey()),
		zap.String("planting_code", rec.PlantingCode),
		zap.Bool("replaced", replaced),
	)
	return &Handoff[domain.SowingRecord]{Record: rec, Redirect: RedirectSowings, Replaced: replaced}, nil
}
