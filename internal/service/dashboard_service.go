package service

import (
	"fmt"
	"sort"
	"time"

	"jabatata-pos/internal/model"
	"jabatata-pos/internal/store"
	"jabatata-pos/internal/ws"

	"go.uber.org/zap"
)

// DashboardStats is the headline view: today's movement, this month's total
// and progress against the monthly goal. GoalProgressPercent is the raw,
// unclamped value; GoalProgressBar is clamped to [0, 100] for display.
type DashboardStats struct {
	TodayTotal          float64 `json:"todayTotal"`
	TodayCount          int     `json:"todayCount"`
	AverageTicket       float64 `json:"averageTicket"`
	MonthTotal          float64 `json:"monthTotal"`
	Goal                float64 `json:"goal"`
	GoalProgressPercent float64 `json:"goalProgressPercent"`
	GoalProgressBar     float64 `json:"goalProgressBar"`
	RemainingToGoal     float64 `json:"remainingToGoal"`
}

// ProductRank is one row of the monthly product ranking.
type ProductRank struct {
	ProductID      string  `json:"productId"`
	Name           string  `json:"name"`
	DailyQty       int     `json:"dailyQty"`
	MonthlyQty     int     `json:"monthlyQty"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
}

type DashboardService interface {
	Stats() DashboardStats
	Ranking() []ProductRank
	SetGoal(goal float64) error
}

type dashboardService struct {
	store  *store.Store
	hub    *ws.Hub
	logger *zap.Logger
	now    func() time.Time
}

func NewDashboardService(st *store.Store, hub *ws.Hub, logger *zap.Logger) DashboardService {
	return &dashboardService{
		store:  st,
		hub:    hub,
		logger: logger,
		now:    time.Now,
	}
}

func (s *dashboardService) Stats() DashboardStats {
	return statsAt(s.store.Sales(), s.store.Goal(), s.now())
}

func (s *dashboardService) Ranking() []ProductRank {
	return rankingAt(s.store.Sales(), s.store.Catalog(), s.now())
}

func (s *dashboardService) SetGoal(goal float64) error {
	if err := s.store.SetGoal(goal); err != nil {
		s.logger.Error("failed to persist goal", zap.Error(err))
		return err
	}
	s.logger.Info("monthly goal updated", zap.Float64("goal", goal))
	s.hub.Publish(ws.Event{
		Type:    ws.EventGoalChanged,
		Message: fmt.Sprintf("Meta mensal alterada para %s", model.FormatBRL(goal)),
		Data:    map[string]float64{"goal": goal},
	})
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// statsAt is the pure aggregation: identical input always yields identical
// output. "Today" and "this month" are evaluated in the timestamp's own
// calendar, local time.
func statsAt(sales []model.Sale, goal float64, now time.Time) DashboardStats {
	stats := DashboardStats{Goal: goal}

	for _, sale := range sales {
		if sameDay(sale.Date, now) {
			stats.TodayTotal += sale.TotalValue
			stats.TodayCount++
		}
		if sameMonth(sale.Date, now) {
			stats.MonthTotal += sale.TotalValue
		}
	}

	if stats.TodayCount > 0 {
		stats.AverageTicket = stats.TodayTotal / float64(stats.TodayCount)
	}
	if goal > 0 {
		stats.GoalProgressPercent = stats.MonthTotal / goal * 100
	}
	stats.GoalProgressBar = stats.GoalProgressPercent
	if stats.GoalProgressBar > 100 {
		stats.GoalProgressBar = 100
	}
	if stats.GoalProgressBar < 0 {
		stats.GoalProgressBar = 0
	}
	stats.RemainingToGoal = goal - stats.MonthTotal
	if stats.RemainingToGoal < 0 {
		stats.RemainingToGoal = 0
	}

	return stats
}

// rankingAt accumulates per-product quantities and revenue across the catalog
// plus any orphaned product id still referenced by sales. Products without
// movement this month are excluded; the rest sort by monthly revenue.
func rankingAt(sales []model.Sale, catalog []model.Product, now time.Time) []ProductRank {
	ranks := make([]ProductRank, 0, len(catalog))
	byID := make(map[string]int, len(catalog))

	add := func(id, name string) {
		if _, ok := byID[id]; ok {
			return
		}
		byID[id] = len(ranks)
		ranks = append(ranks, ProductRank{ProductID: id, Name: name})
	}

	for _, product := range catalog {
		add(product.ID, product.Name)
	}

	for _, sale := range sales {
		today := sameDay(sale.Date, now)
		month := sameMonth(sale.Date, now)
		for _, item := range sale.Items {
			// Orphaned references stay reportable after menu removal.
			add(item.ProductID, fmt.Sprintf("Produto #%s", item.ProductID))
			r := &ranks[byID[item.ProductID]]
			if today {
				r.DailyQty += item.Quantity
			}
			if month {
				r.MonthlyQty += item.Quantity
				r.MonthlyRevenue += float64(item.Quantity) * item.UnitPrice
			}
		}
	}

	out := ranks[:0]
	for _, rank := range ranks {
		if rank.MonthlyQty > 0 {
			out = append(out, rank)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MonthlyRevenue > out[j].MonthlyRevenue
	})
	return out
}
