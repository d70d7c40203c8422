// Package sql предоставляет реализацию репозиториев реестра поверх gorm.
//
// Ошибки gorm преобразуются в общие ошибки уровня репозитория через ConvertErrorType.
package sql
