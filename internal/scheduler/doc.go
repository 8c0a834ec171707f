// Package scheduler повторяет запуск workflow по cron-расписанию.
//
// Используется флагом iguana run --schedule. Каждый запуск независим:
// workflow перечитывается, статусы не переносятся между runs.
//
// Поддерживаются 5-польные выражения и дескрипторы robfig/cron:
//
//	*/15 * * * *
//	@hourly
//	@every 10m
package scheduler
