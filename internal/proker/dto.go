package proker

import (
	"generus-backend/internal/models"
)

type LineItemRequest struct {
	ItemName  string `json:"item_name" validate:"required,max=150"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0"`
	Quantity  int64  `json:"quantity" validate:"gte=0"`
}

type ProkerRequest struct {
	DesaID     *uint               `json:"desa_id"`
	KelompokID *uint               `json:"kelompok_id"`
	Team       string              `json:"team" validate:"required"`
	Year       int                 `json:"year" validate:"required,gte=2000,lte=2100"`
	Kegiatan   string              `json:"kegiatan" validate:"required,max=255"`
	Tujuan     string              `json:"tujuan"`
	Tempat     string              `json:"tempat" validate:"max=150"`
	Sasaran    string              `json:"sasaran" validate:"max=150"`
	LineItems  []LineItemRequest   `json:"line_items" validate:"dive"`
	Timeline   map[string][]string `json:"timeline"`
}

type ProkerResponse struct {
	ID          uint               `json:"id"`
	Level       models.ProkerLevel `json:"level"`
	DesaID      uint               `json:"desa_id"`
	KelompokID  *uint              `json:"kelompok_id"`
	Team        string             `json:"team"`
	Year        int                `json:"year"`
	Kegiatan    string             `json:"kegiatan"`
	Tujuan      string             `json:"tujuan"`
	Tempat      string             `json:"tempat"`
	Sasaran     string             `json:"sasaran"`
	LineItems   []models.LineItem  `json:"line_items"`
	Timeline    models.Timeline    `json:"timeline"`
	BudgetTotal int64              `json:"budget_total"`
	CreatedAt   string             `json:"created_at"`
}

func toResponse(p models.Proker) ProkerResponse {
	items := p.LineItems.Data()
	if items == nil {
		items = []models.LineItem{}
	}
	tl := p.Timeline.Data()
	if tl == nil {
		tl = models.Timeline{}
	}
	return ProkerResponse{
		ID:          p.ID,
		Level:       p.Level,
		DesaID:      p.DesaID,
		KelompokID:  p.KelompokID,
		Team:        p.Team,
		Year:        p.Year,
		Kegiatan:    p.Kegiatan,
		Tujuan:      p.Tujuan,
		Tempat:      p.Tempat,
		Sasaran:     p.Sasaran,
		LineItems:   items,
		Timeline:    tl,
		BudgetTotal: BudgetTotal(items),
		CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toResponses(list []models.Proker) []ProkerResponse {
	out := make([]ProkerResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toResponse(p))
	}
	return out
}

type TeamGroupResponse struct {
	Team        string           `json:"team"`
	Items       []ProkerResponse `json:"items"`
	TotalBudget int64            `json:"total_budget"`
}

type MonthRecapResponse struct {
	Month       string           `json:"month"`
	Items       []ProkerResponse `json:"items"`
	TotalBudget int64            `json:"total_budget"`
}

type RecapResponse struct {
	Year          int                  `json:"year"`
	Level         models.ProkerLevel   `json:"level,omitempty"`
	GroupedByTeam []TeamGroupResponse  `json:"grouped_by_team"`
	MonthlyRecap  []MonthRecapResponse `json:"monthly_recap"`
	GrandTotal    int64                `json:"grand_total"`
	Degraded      bool                 `json:"degraded"`
}

func toRecapResponse(year int, level models.ProkerLevel, r Recap) RecapResponse {
	resp := RecapResponse{
		Year:          year,
		Level:         level,
		GroupedByTeam: make([]TeamGroupResponse, 0, len(r.GroupedByTeam)),
		MonthlyRecap:  make([]MonthRecapResponse, 0, len(r.MonthlyRecap)),
		GrandTotal:    r.GrandTotal,
	}
	for _, g := range r.GroupedByTeam {
		tg := TeamGroupResponse{Team: g.Team, Items: toResponses(g.Items)}
		for _, it := range tg.Items {
			tg.TotalBudget += it.BudgetTotal
		}
		resp.GroupedByTeam = append(resp.GroupedByTeam, tg)
	}
	for _, m := range r.MonthlyRecap {
		resp.MonthlyRecap = append(resp.MonthlyRecap, MonthRecapResponse{
			Month:       m.Month,
			Items:       toResponses(m.Items),
			TotalBudget: m.TotalBudget,
		})
	}
	return resp
}
