// Command token emite un JWT firmado con JWT_SECRET para pruebas locales de la API.
//
//	go run ./cmd/token --user 7b0e... --role admin
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/Panaderia-api/pkg/config"
	"github.com/jhoicas/Panaderia-api/pkg/jwt"
)

func main() {
	user := pflag.StringP("user", "u", "", "ID del usuario (claim user_id)")
	role := pflag.StringP("role", "r", jwt.RoleAdmin, "rol: admin, panadero, cajero, inventario")
	minutes := pflag.IntP("exp", "e", 0, "vigencia en minutos (0 usa JWT_EXPIRATION_MINUTES)")
	pflag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "falta --user")
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	exp := *minutes
	if exp <= 0 {
		exp = cfg.JWT.Expiration
	}

	token, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
