package greeting

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	EnvironmentKey     = "ENVIRONMENT"
	DefaultEnvironment = "unknown"
)

var settings = newSettings()

func newSettings() *viper.Viper {
	v := viper.New()
	v.SetDefault(EnvironmentKey, DefaultEnvironment)
	// a variable that is present but empty is still a value
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	return v
}

// HelloWorld builds the greeting for the environment the function is deployed to.
// ENVIRONMENT is looked up on every call.
func HelloWorld() string {
	return fmt.Sprintf("Hello World from %s environment!", settings.GetString(EnvironmentKey))
}
