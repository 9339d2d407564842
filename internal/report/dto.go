package report

import (
	"encoding/json"

	"generus-backend/internal/models"
)

type KBMRequest struct {
	DesaID      *uint           `json:"desa_id"`
	KelompokID  *uint           `json:"kelompok_id"`
	KategoriID  uint            `json:"kategori_id" validate:"required"`
	PeriodYear  int             `json:"period_year" validate:"required,gte=2000,lte=2100"`
	PeriodMonth int             `json:"period_month" validate:"required,min=1,max=12"`
	Hadir       int             `json:"hadir" validate:"gte=0"`
	Izin        int             `json:"izin" validate:"gte=0"`
	Sakit       int             `json:"sakit" validate:"gte=0"`
	Alpa        int             `json:"alpa" validate:"gte=0"`
	Materi      string          `json:"materi"`
	Evaluasi    string          `json:"evaluasi"`
	Payload     json.RawMessage `json:"payload"`
}

type KBMResponse struct {
	ID           uint            `json:"id"`
	DesaID       uint            `json:"desa_id"`
	KelompokID   uint            `json:"kelompok_id"`
	KategoriID   uint            `json:"kategori_id"`
	KategoriName string          `json:"kategori_name,omitempty"`
	PeriodYear   *int            `json:"period_year"`
	PeriodMonth  *int            `json:"period_month"`
	Hadir        int             `json:"hadir"`
	Izin         int             `json:"izin"`
	Sakit        int             `json:"sakit"`
	Alpa         int             `json:"alpa"`
	Materi       string          `json:"materi"`
	Evaluasi     string          `json:"evaluasi"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

func toKBMResponse(l models.LaporanKBM) KBMResponse {
	return KBMResponse{
		ID:           l.ID,
		DesaID:       l.DesaID,
		KelompokID:   l.KelompokID,
		KategoriID:   l.KategoriID,
		KategoriName: l.Kategori.Name,
		PeriodYear:   l.PeriodYear,
		PeriodMonth:  l.PeriodMonth,
		Hadir:        l.Hadir,
		Izin:         l.Izin,
		Sakit:        l.Sakit,
		Alpa:         l.Alpa,
		Materi:       l.Materi,
		Evaluasi:     l.Evaluasi,
		Payload:      json.RawMessage(l.Payload),
		CreatedAt:    l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

type MuslimunRequest struct {
	DesaID        *uint           `json:"desa_id"`
	KelompokID    *uint           `json:"kelompok_id"`
	PeriodYear    int             `json:"period_year" validate:"required,gte=2000,lte=2100"`
	PeriodMonth   int             `json:"period_month" validate:"required,min=1,max=12"`
	MeetingDate   string          `json:"meeting_date" validate:"required,datetime=2006-01-02"`
	Tempat        string          `json:"tempat" validate:"max=150"`
	JumlahPeserta int             `json:"jumlah_peserta" validate:"gte=0"`
	Notulen       string          `json:"notulen" validate:"required"`
	Payload       json.RawMessage `json:"payload"`
}

type MuslimunResponse struct {
	ID            uint            `json:"id"`
	DesaID        uint            `json:"desa_id"`
	KelompokID    *uint           `json:"kelompok_id"`
	PeriodYear    *int            `json:"period_year"`
	PeriodMonth   *int            `json:"period_month"`
	MeetingDate   string          `json:"meeting_date"`
	Tempat        string          `json:"tempat"`
	JumlahPeserta int             `json:"jumlah_peserta"`
	Notulen       string          `json:"notulen"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

func toMuslimunResponse(l models.LaporanMuslimun) MuslimunResponse {
	return MuslimunResponse{
		ID:            l.ID,
		DesaID:        l.DesaID,
		KelompokID:    l.KelompokID,
		PeriodYear:    l.PeriodYear,
		PeriodMonth:   l.PeriodMonth,
		MeetingDate:   l.MeetingDate.Format("2006-01-02"),
		Tempat:        l.Tempat,
		JumlahPeserta: l.JumlahPeserta,
		Notulen:       l.Notulen,
		Payload:       json.RawMessage(l.Payload),
		CreatedAt:     l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

type SummaryItem[R any] struct {
	PeriodYear  int    `json:"period_year"`
	PeriodMonth int    `json:"period_month"`
	Label       string `json:"label"`
	Count       int    `json:"count"`
	Sample      *R     `json:"sample,omitempty"`
}

type SummaryResponse[R any] struct {
	Summaries []SummaryItem[R] `json:"summaries"`
	// Total: laporan yang masuk rekap; Skipped: laporan tanpa periode valid
	Total    int  `json:"total"`
	Skipped  int  `json:"skipped"`
	Degraded bool `json:"degraded"`
}

func buildSummary[T Periodic, R any](records []T, conv func(T) R) SummaryResponse[R] {
	summaries := AggregateByPeriod(records)

	resp := SummaryResponse[R]{Summaries: make([]SummaryItem[R], 0, len(summaries))}
	for _, s := range summaries {
		item := SummaryItem[R]{
			PeriodYear:  s.Year,
			PeriodMonth: s.Month,
			Label:       s.Period().Label(),
			Count:       s.Count,
		}
		if s.Sample != nil {
			r := conv(*s.Sample)
			item.Sample = &r
		}
		resp.Summaries = append(resp.Summaries, item)
		resp.Total += s.Count
	}
	resp.Skipped = len(records) - resp.Total
	return resp
}

func intPtr(v int) *int { return &v }
