// Package psql предоставляет реализацию репозиториев реестра поверх pgx.
// Запросы написаны на чистом SQL, схема накатывается фабрикой подключений.
package psql
