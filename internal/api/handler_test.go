package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Azemoten/sauna-booking-bot/internal/config"
	"github.com/Azemoten/sauna-booking-bot/internal/model"
	"github.com/Azemoten/sauna-booking-bot/internal/repository"
	"github.com/Azemoten/sauna-booking-bot/internal/schedule"
	"github.com/Azemoten/sauna-booking-bot/internal/service"
)

func newTestServer(t *testing.T) (*httptest.Server, *service.BookingService) {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Almaty")
	require.NoError(t, err)

	cfg := config.BookingConfig{
		CabinCount:     2,
		SlotMinutes:    60,
		AdvanceDays:    7,
		PriceSingle:    5000,
		PricePerPerson: 3000,
		Timezone:       "Asia/Almaty",
		OpeningHours: map[string]config.HoursRule{
			"sun": {Open: "10:00", Close: "14:00"},
			"mon": {Open: "10:00", Close: "14:00"},
			"tue": {Open: "10:00", Close: "14:00"},
			"wed": {Open: "10:00", Close: "14:00"},
			"thu": {Open: "10:00", Close: "14:00"},
			"fri": {Open: "10:00", Close: "14:00"},
			"sat": {Open: "10:00", Close: "14:00"},
		},
	}

	svc := service.NewBookingService(
		repository.NewMemoryRepository(),
		schedule.NewCalendar(cfg, loc),
		cfg,
		zap.NewNop(),
	)

	srv := httptest.NewServer(NewRouter(NewHandler(svc, zap.NewNop()), zap.NewNop()))
	t.Cleanup(srv.Close)

	return srv, svc
}

func firstSlotTomorrow(t *testing.T, svc *service.BookingService) model.Slot {
	t.Helper()

	tomorrow := svc.Calendar().StartOfDay(time.Now()).AddDate(0, 0, 1)
	slots := svc.Calendar().BuildSlots(tomorrow)
	require.NotEmpty(t, slots)
	return slots[0]
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createPayload(slot model.Slot) map[string]any {
	return map[string]any{
		"phone":        "700111",
		"cabin_number": 1,
		"start_time":   slot.StartTime.Format(time.RFC3339),
		"end_time":     slot.EndTime.Format(time.RFC3339),
		"people":       2,
	}
}

func TestCreateBooking(t *testing.T) {
	srv, svc := newTestServer(t)
	slot := firstSlotTomorrow(t, svc)

	t.Run("успешное создание", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", createPayload(slot))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		b := decodeBody[model.Booking](t, resp)
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, 1, b.CabinNumber)
		assert.Equal(t, 6000, b.TotalPrice)
		assert.Equal(t, model.BookingStatusPending, b.Status)
	})

	t.Run("конфликт по кабинке", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", createPayload(slot))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("другая кабинка проходит", func(t *testing.T) {
		payload := createPayload(slot)
		payload["cabin_number"] = 2
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", payload)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("прошедшее время", func(t *testing.T) {
		payload := createPayload(slot)
		start := time.Now().Add(-2 * time.Hour)
		payload["start_time"] = start.Format(time.RFC3339)
		payload["end_time"] = start.Add(time.Hour).Format(time.RFC3339)

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("длительность не равна слоту", func(t *testing.T) {
		payload := createPayload(slot)
		payload["cabin_number"] = 2
		payload["end_time"] = slot.EndTime.Add(30 * time.Minute).Format(time.RFC3339)

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("не хватает обязательных полей", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]any{"phone": "700111"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("явная цена от админки", func(t *testing.T) {
		tomorrow := svc.Calendar().StartOfDay(time.Now()).AddDate(0, 0, 2)
		slots := svc.Calendar().BuildSlots(tomorrow)
		require.NotEmpty(t, slots)

		payload := createPayload(slots[0])
		payload["total_price"] = 99999

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		b := decodeBody[model.Booking](t, resp)
		assert.Equal(t, 99999, b.TotalPrice)
	})
}

func TestListBookings(t *testing.T) {
	srv, svc := newTestServer(t)

	t.Run("пустой список это массив", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/bookings")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		list := decodeBody[[]model.Booking](t, resp)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	slot := firstSlotTomorrow(t, svc)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", createPayload(slot))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	t.Run("после создания бронь в списке", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/bookings")
		require.NoError(t, err)

		list := decodeBody[[]model.Booking](t, resp)
		require.Len(t, list, 1)
		assert.Equal(t, "700111", list[0].Phone)
	})
}

func TestListSlots(t *testing.T) {
	srv, svc := newTestServer(t)

	tomorrow := svc.Calendar().StartOfDay(time.Now()).AddDate(0, 0, 1)
	dateISO := tomorrow.Format("2006-01-02")

	t.Run("все слоты свободны", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/slots/" + dateISO)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		slots := decodeBody[[]slotResponse](t, resp)
		require.Len(t, slots, 4) // 10:00–14:00, часовые слоты
		for _, s := range slots {
			assert.Equal(t, 2, s.AvailableCabins)
			assert.False(t, s.IsFull)
		}
	})

	t.Run("после брони доступность падает", func(t *testing.T) {
		slot := firstSlotTomorrow(t, svc)
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", createPayload(slot))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()

		listResp, err := http.Get(srv.URL + "/api/slots/" + dateISO)
		require.NoError(t, err)

		slots := decodeBody[[]slotResponse](t, listResp)
		require.Len(t, slots, 4)
		assert.Equal(t, 1, slots[0].AvailableCabins)
		assert.Equal(t, 2, slots[1].AvailableCabins)
	})

	t.Run("некорректная дата", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/slots/notadate")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestUpdateStatus(t *testing.T) {
	srv, svc := newTestServer(t)
	slot := firstSlotTomorrow(t, svc)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", createPayload(slot))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[model.Booking](t, resp)

	url := fmt.Sprintf("%s/api/bookings/%s/status", srv.URL, created.ID)

	t.Run("переход в paid", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, url, map[string]string{"status": "paid"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		b := decodeBody[model.Booking](t, resp)
		assert.Equal(t, model.BookingStatusPaid, b.Status)
	})

	t.Run("неизвестный статус", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, url, map[string]string{"status": "confirmed"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("несуществующая бронь", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, srv.URL+"/api/bookings/missing/status",
			map[string]string{"status": "paid"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestDeleteBooking(t *testing.T) {
	srv, svc := newTestServer(t)
	slot := firstSlotTomorrow(t, svc)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", createPayload(slot))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[model.Booking](t, resp)

	t.Run("без phone — 400", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, srv.URL+"/api/bookings/"+created.ID, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("чужой phone — 404", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, srv.URL+"/api/bookings/"+created.ID+"?phone=700999", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("владелец удаляет", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, srv.URL+"/api/bookings/"+created.ID+"?phone=700111", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		listResp, err := http.Get(srv.URL + "/api/bookings")
		require.NoError(t, err)
		list := decodeBody[[]model.Booking](t, listResp)
		assert.Empty(t, list)
	})
}

func TestGetConfig(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/config")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cfg := decodeBody[config.BookingConfig](t, resp)
	assert.Equal(t, 2, cfg.CabinCount)
	assert.Equal(t, 60, cfg.SlotMinutes)
	assert.Equal(t, "Asia/Almaty", cfg.Timezone)
	assert.Len(t, cfg.OpeningHours, 7)
}
