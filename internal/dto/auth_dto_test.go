package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTelegramLoginData_DataCheckFields(t *testing.T) {
	data := TelegramLoginData{
		ID:        42,
		FirstName: "Anna",
		AuthDate:  1700000000,
		Hash:      "abc",
	}

	fields := data.DataCheckFields()
	assert.Equal(t, map[string]string{
		"id":         "42",
		"first_name": "Anna",
		"auth_date":  "1700000000",
	}, fields, "пустые поля и hash не попадают в строку проверки")
}
