package service

import "errors"

var (
	// ErrSlotTaken — выбранное время уже занято на финальной проверке.
	ErrSlotTaken = errors.New("slot is already taken")

	// ErrCalendarUnavailable — календарь не создал событие, запись не выполнена.
	ErrCalendarUnavailable = errors.New("calendar is unavailable")

	// ErrStoreUnavailable — хранилище не записало строку записи.
	ErrStoreUnavailable = errors.New("store is unavailable")

	// ErrNotFound — запись не найдена или уже удалена.
	ErrNotFound = errors.New("appointment not found")
)
