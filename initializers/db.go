package initializers

import (
	"hr-approval-backend/config"
	"hr-approval-backend/db"
)

func InitDBConnection() {
	err := db.Connect(config.Conf.Database.Host, config.Conf.Database.Port, config.Conf.Database.Name,
		config.Conf.Database.User, config.Conf.Database.Password, boolValue(config.Conf.Database.DebugMode), boolValue(config.Conf.Database.MigrateOnStart))
	if err != nil {
		panic(err.Error())
	}
}

func boolValue(value *bool) bool {
	return value != nil && *value
}
