package dotenv

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load подтягивает переменные из .env в окружение процесса. Флаг -port
// перекрывает PORT из файла, чтобы локально поднимать несколько копий
// сервиса на разных портах.
func Load() error {
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	var portFlag string
	if !flag.Parsed() {
		flag.StringVar(&portFlag, "port", "", "Server port (overrides PORT environment variable)")
		flag.Parse()
	}

	if portFlag != "" {
		if err := os.Setenv("PORT", portFlag); err != nil {
			return fmt.Errorf("override PORT: %w", err)
		}
	}
	return nil
}
