package logger

import "go.uber.org/zap"

// L — глобальный логгер приложения. До вызова Init — no-op,
// чтобы пакеты можно было использовать в тестах без настройки.
var L = zap.NewNop()

// Init настраивает глобальный логгер. env: "development" или "production".
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)

	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	L = l
	zap.ReplaceGlobals(l)
	return nil
}

// Sync сбрасывает буферизованные записи (вызывается при завершении).
func Sync() {
	_ = L.Sync()
}
