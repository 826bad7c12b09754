package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// exportDayToExcel создает Excel файл с записями за день
func (b *Bot) exportDayToExcel(ctx context.Context, day time.Time) (string, error) {
	// Создаем папку для экспорта, если не существует
	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	// Выгружаем все статусы, не только активные
	appointments := b.bookingService.AppointmentsForDay(ctx, day, "")

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Записи"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Записи на %s", day.Format("02.01.2006")))

	headers := []string{"Время", "Клиент", "Телефон", "Услуга", "Статус", "Напоминание"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for row, a := range appointments {
		reminded := "нет"
		if a.Reminded {
			reminded = "да"
		}
		values := []interface{}{
			a.Time.Format(models.TimeKeyFormat),
			a.ClientName,
			a.ClientPhone,
			a.ServiceTitle,
			statusLabel(a.Status),
			reminded,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 10)
	_ = f.SetColWidth(sheetName, "B", "D", 25)
	_ = f.SetColWidth(sheetName, "E", "F", 14)
	_ = f.MergeCell(sheetName, "A1", "F1")

	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", style)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("appointments_%s.xlsx", day.Format("2006-01-02"))
	filePath := filepath.Join(b.config.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	b.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

func (b *Bot) sendDocument(conv *conversation, path string) {
	doc := tgbotapi.NewDocument(conv.chatID, tgbotapi.FilePath(path))
	if _, err := b.tgService.Send(doc); err != nil {
		zerolog.Ctx(conv.ctx).Error().Err(err).Str("path", path).Msg("Failed to send document")
		b.sendMessage(conv.chatID, "Файл подготовлен, но отправить его не удалось.")
	}
}
