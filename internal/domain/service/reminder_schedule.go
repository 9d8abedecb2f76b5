package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

// maxOccurrenceScan 1つのリマインダーで展開する回数の上限
const maxOccurrenceScan = 1000

func frequencyDays(f model.Frequency) int {
	switch f {
	case model.FrequencyDaily:
		return 1
	case model.FrequencyWeekly:
		return 7
	case model.FrequencyBiweekly:
		return 14
	}
	return 0
}

// addMonthsClamped 月末を超える場合はその月の最終日に丸める（1/31 -> 2/28）
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// occurrence 開始日から k 回目の予定日
func occurrence(r model.Reminder, k int) (time.Time, bool) {
	if r.Frequency == model.FrequencyMonthly {
		return addMonthsClamped(r.StartDate, k), true
	}
	days := frequencyDays(r.Frequency)
	if days == 0 {
		return time.Time{}, false
	}
	return r.StartDate.AddDate(0, 0, k*days), true
}

// firstIndexFrom from 以前を飛ばすための開始インデックスの見積もり（少し手前から）
func firstIndexFrom(r model.Reminder, from time.Time) int {
	if !from.After(r.StartDate) {
		return 0
	}
	var k int
	if r.Frequency == model.FrequencyMonthly {
		sy, sm, _ := r.StartDate.Date()
		fy, fm, _ := from.Date()
		k = (fy-sy)*12 + int(fm-sm) - 1
	} else if days := frequencyDays(r.Frequency); days > 0 {
		k = int(from.Sub(r.StartDate).Hours()/24)/days - 1
	}
	if k < 0 {
		k = 0
	}
	return k
}

// NextOccurrences from 以降の予定日を最大 n 件返す。無効なリマインダーは空
func NextOccurrences(r model.Reminder, from time.Time, n int) []time.Time {
	if !r.Active || n <= 0 {
		return nil
	}
	var result []time.Time
	for k, scanned := firstIndexFrom(r, from), 0; len(result) < n && scanned < maxOccurrenceScan; k, scanned = k+1, scanned+1 {
		at, ok := occurrence(r, k)
		if !ok {
			return nil
		}
		if at.Before(from) {
			continue
		}
		result = append(result, at)
	}
	return result
}

// ExpandReminders [from, to] の期間に入る予定をカレンダーイベントとして展開する
func ExpandReminders(reminders []model.Reminder, from, to time.Time) []model.CalendarEvent {
	var events []model.CalendarEvent
	for _, r := range reminders {
		if !r.Active {
			continue
		}
		for k, scanned := firstIndexFrom(r, from), 0; scanned < maxOccurrenceScan; k, scanned = k+1, scanned+1 {
			at, ok := occurrence(r, k)
			if !ok || at.After(to) {
				break
			}
			if at.Before(from) {
				continue
			}
			events = append(events, model.CalendarEvent{
				ID:        fmt.Sprintf("%s-%s", r.ID, at.Format("20060102")),
				ListID:    r.ListID,
				UserID:    r.UserID,
				Title:     r.ItemName,
				Date:      at,
				ItemName:  r.ItemName,
				Recurring: true,
			})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events
}
