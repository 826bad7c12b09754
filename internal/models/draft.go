package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrDraftIncomplete = errors.New("booking draft is incomplete")

// Draft — черновик записи, который пользователь заполняет по шагам.
// Хранится в репозитории состояний до подтверждения или отмены и
// не переживает завершение диалога.
type Draft struct {
	UserID int64  `json:"user_id"`
	Step   string `json:"step"`

	CategoryID   string `json:"category_id,omitempty"`
	ServiceID    string `json:"service_id,omitempty"`
	ServiceTitle string `json:"service_title,omitempty"`
	ServicePrice string `json:"service_price,omitempty"`
	Date         string `json:"date,omitempty"` // 2006-01-02
	Time         string `json:"time,omitempty"` // 15:04
	Phone        string `json:"phone,omitempty"`

	// ClientName заполняется только в ветке админа; в клиентской ветке
	// имя берется из профиля Telegram.
	ClientName string `json:"client_name,omitempty"`
}

// StartAt собирает дату и время черновика в момент начала записи.
func (d *Draft) StartAt(loc *time.Location) (time.Time, error) {
	if d.Date == "" || d.Time == "" {
		return time.Time{}, ErrDraftIncomplete
	}
	t, err := time.ParseInLocation(DateKeyFormat+" "+TimeKeyFormat, d.Date+" "+d.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrDraftIncomplete, err)
	}
	return t, nil
}

// ReadyToBook проверяет, что все обязательные поля собраны,
// прежде чем выполнять подтверждение.
func (d *Draft) ReadyToBook() error {
	switch {
	case d.ServiceID == "":
		return fmt.Errorf("%w: service", ErrDraftIncomplete)
	case d.Date == "":
		return fmt.Errorf("%w: date", ErrDraftIncomplete)
	case d.Time == "":
		return fmt.Errorf("%w: time", ErrDraftIncomplete)
	}
	return nil
}

// stepOrder — позиция шага в клиентской ветке; используется ResetFrom,
// чтобы при возврате назад стирать все, что было собрано позже.
var stepOrder = map[string]int{
	StepSelectCategory: 0,
	StepSelectService:  1,
	StepSelectDate:     2,
	StepSelectTime:     3,
	StepConfirm:        4,
	StepEnterPhone:     5,
}

// ResetFrom возвращает черновик на указанный шаг, отбрасывая данные,
// собранные строго после него: значение самого шага пользователь
// перевыберет заново.
func (d *Draft) ResetFrom(step string) {
	pos, ok := stepOrder[step]
	if !ok {
		return
	}
	if pos < stepOrder[StepEnterPhone] {
		d.Phone = ""
	}
	if pos < stepOrder[StepSelectTime] {
		d.Time = ""
	}
	if pos < stepOrder[StepSelectDate] {
		d.Date = ""
	}
	if pos < stepOrder[StepSelectService] {
		d.ServiceID = ""
		d.ServiceTitle = ""
		d.ServicePrice = ""
	}
	d.Step = step
}
