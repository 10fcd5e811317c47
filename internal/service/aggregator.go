package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/pricesource"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/profit"
)

// Aggregator computes per-owner, per-account profit totals.
type Aggregator struct {
	source  pricesource.Source
	now     profit.Clock
	workers int
	logger  logger.Logger
}

// NewAggregator creates an Aggregator. Every run gets its own price cache in
// front of source, and at most workers price lookups run at the same time.
func NewAggregator(source pricesource.Source, now profit.Clock, workers int, log logger.Logger) *Aggregator {
	if workers <= 0 {
		workers = 1
	}
	if now == nil {
		now = time.Now
	}
	return &Aggregator{source: source, now: now, workers: workers, logger: log}
}

// lotResult is the outcome of pricing one lot.
type lotResult struct {
	profit float64
	value  float64
	err    error
}

// ownerJob holds the lots of one owner and, after the run, their results.
type ownerJob struct {
	owner   string
	lots    []model.Lot
	results []lotResult
	err     error
}

// Aggregate returns one report row per owner in partition order.
//
// Each lot's profit goes into the bucket of its account, whatever its stock
// type. Lots without any sale also add their current market value to the
// owner's investments, which are then converted into refCurrency at the last
// FX close since the owner's earliest purchase. A failed price lookup fails
// the owner's row; a failed FX lookup only makes InvestmentsValue unavailable.
//
// The returned error is non-nil only when ctx is cancelled.
func (a *Aggregator) Aggregate(ctx context.Context, partition Partition, refCurrency model.Currency) ([]model.OwnerReport, error) {
	calc := profit.NewCalculator(pricesource.NewMemo(a.source), a.now)
	fx := NewFXConverter(calc)

	jobs := make([]*ownerJob, len(partition.Owners))
	for i, owner := range partition.Owners {
		job := &ownerJob{owner: owner}
		job.lots, job.err = BuildLots(partition.Positions[owner])
		job.results = make([]lotResult, len(job.lots))
		jobs[i] = job
	}

	var g errgroup.Group
	g.SetLimit(a.workers)
	for _, job := range jobs {
		if job.err != nil {
			continue
		}
		for i := range job.lots {
			job, i := job, i
			g.Go(func() error {
				job.results[i] = a.priceLot(ctx, calc, job.lots[i])
				return nil
			})
		}
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reports := make([]model.OwnerReport, len(jobs))
	for i, job := range jobs {
		reports[i] = a.buildRow(ctx, fx, job, refCurrency)
	}

	return reports, nil
}

func (a *Aggregator) priceLot(ctx context.Context, calc *profit.Calculator, lot model.Lot) lotResult {
	symbol := lot.Position.MarketSymbol()
	bought := lot.Position.DateBought.Format("2006-01-02")

	p, err := calc.ComputeLotProfit(ctx, lot)
	if err != nil {
		return lotResult{err: fmt.Errorf("%s bought %s: %w", symbol, bought, err)}
	}

	res := lotResult{profit: p}
	if lot.Unsold() {
		res.value, err = calc.MarketValue(ctx, symbol, lot.Position.DateBought, lot.Position.SharesBought)
		if err != nil {
			return lotResult{err: fmt.Errorf("%s bought %s: %w", symbol, bought, err)}
		}
	}
	return res
}

func (a *Aggregator) buildRow(ctx context.Context, fx *FXConverter, job *ownerJob, refCurrency model.Currency) model.OwnerReport {
	row := model.OwnerReport{Owner: job.owner, Complete: true}
	log := a.logger.With("owner", job.owner)

	if job.err != nil {
		log.Warnf("can't build lots: %s", job.err)
		row.Complete = false
		row.Errors = append(row.Errors, job.err.Error())
		return row
	}

	for _, res := range job.results {
		if res.err != nil {
			log.Warnf("can't price position: %s", res.err)
			row.Errors = append(row.Errors, res.err.Error())
		}
	}
	if len(row.Errors) > 0 {
		row.Complete = false
		return row
	}

	investments := make(map[model.Currency]float64)
	var anchor time.Time
	var profits model.OwnerReport
	for i, lot := range job.lots {
		if err := profits.AddProfit(lot.Position.Account, job.results[i].profit); err != nil {
			log.Warnf("can't bucket position: %s", err)
			row.Complete = false
			row.Errors = append(row.Errors, err.Error())
			return row
		}
		if lot.Unsold() {
			investments[lot.Position.Currency] += job.results[i].value
		}
		if anchor.IsZero() || lot.Position.DateBought.Before(anchor) {
			anchor = lot.Position.DateBought
		}
	}
	row.CryptoProfit = profits.CryptoProfit
	row.TFSAProfit = profits.TFSAProfit
	row.PersProfit = profits.PersProfit
	row.ProfitsAvailable = true

	var total float64
	for _, cur := range []model.Currency{model.USD, model.CAD, model.EUR} {
		amount, ok := investments[cur]
		if !ok {
			continue
		}
		converted, err := fx.Convert(ctx, amount, cur, refCurrency, anchor)
		if err != nil {
			log.Warnf("can't convert investments: %s", err)
			row.Complete = false
			row.Errors = append(row.Errors, err.Error())
			return row
		}
		total += converted
	}
	row.InvestmentsValue = &total

	return row
}
