// kardexctl tareas de operación del kardex: migraciones y carga inicial.
//
// Uso:
//
//	kardexctl migrate up
//	kardexctl migrate status
//	kardexctl seed catalog --file insumos.csv [--encoding latin1] [--open-kardex]
//	kardexctl seed operator --ci 1234567 --nombres Ana --apellidos Quispe --rol admin --password ********
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/infrastructure/csvcatalog"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "kardexctl",
		Short:        "Herramientas de operación de Kardex API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env configuración y pool compartidos por los subcomandos.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func connect(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "kardexctl"})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

// migrationsFS usa el directorio indicado o, si está vacío, las migraciones embebidas.
func migrationsFS(dir string) fs.FS {
	if dir == "" {
		return postgres.EmbeddedMigrations()
	}
	return os.DirFS(dir)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de base de datos",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.pool.Close()

			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = e.cfg.Kardex.MigrationsDir
			}
			count, err := postgres.NewMigrator(e.pool, migrationsFS(dir)).Up(ctx)
			if err != nil {
				return fmt.Errorf("migración fallida: %w", err)
			}
			e.log.Info().Int("applied", count).Msg("migraciones aplicadas")
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Directorio de migraciones (vacío = embebidas; o KARDEX_MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Muestra el estado de las migraciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.pool.Close()

			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = e.cfg.Kardex.MigrationsDir
			}
			statuses, err := postgres.NewMigrator(e.pool, migrationsFS(dir)).Status(ctx)
			if err != nil {
				return fmt.Errorf("estado de migraciones: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NOMBRE", "ESTADO", "APLICADA")
			fmt.Fprintln(out, "---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pendiente"
				appliedAt := ""
				if s.Applied {
					status = "aplicada"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Directorio de migraciones (vacío = embebidas; o KARDEX_MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga inicial de datos",
	}

	// seed catalog
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Registra o actualiza insumos desde un CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			encName, _ := cmd.Flags().GetString("encoding")
			openKardex, _ := cmd.Flags().GetBool("open-kardex")
			location, _ := cmd.Flags().GetString("ubicacion")

			enc, err := csvcatalog.ParseEncoding(encName)
			if err != nil {
				return err
			}
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("abrir catálogo: %w", err)
			}
			defer f.Close()
			supplies, err := csvcatalog.Read(f, enc)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.pool.Close()

			loc, err := e.cfg.Kardex.Location()
			if err != nil {
				return err
			}
			clock := kardex.Clock(func() time.Time { return time.Now().In(loc) })
			uc := kardex.NewCatalogUseCase(postgres.NewTxRunner(e.pool), clock, e.cfg.Kardex.DefaultLocation, e.log.Component("catalogo"))
			res, err := uc.Import(ctx, kardex.ImportInput{Supplies: supplies, OpenLedgers: openKardex, Location: location})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Insumos registrados: %d. Kardex abiertos: %d.\n", res.Upserted, len(res.OpenedKardex))
			return nil
		},
	}
	catalogCmd.Flags().String("file", "insumos.csv", "Archivo CSV del catálogo")
	catalogCmd.Flags().String("encoding", "auto", "Codificación: auto, utf-8 o latin1")
	catalogCmd.Flags().Bool("open-kardex", false, "Abrir el kardex de la gestión actual donde falte")
	catalogCmd.Flags().String("ubicacion", "", "Ubicación de los kardex abiertos (vacío = KARDEX_DEFAULT_LOCATION)")
	cmd.AddCommand(catalogCmd)

	// seed operator
	operatorCmd := &cobra.Command{
		Use:   "operator",
		Short: "Crea o actualiza un operador",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := dto.RegisterOperatorRequest{}
			in.CI, _ = cmd.Flags().GetString("ci")
			in.FirstNames, _ = cmd.Flags().GetString("nombres")
			in.LastNames, _ = cmd.Flags().GetString("apellidos")
			in.Role, _ = cmd.Flags().GetString("rol")
			in.Password, _ = cmd.Flags().GetString("password")
			if in.Password == "" {
				in.Password = os.Getenv("KARDEX_OPERATOR_PASSWORD")
			}

			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.pool.Close()

			uc := auth.NewAuthUseCase(postgres.NewUserRepository(e.pool), auth.JWTConfig{})
			out, err := uc.RegisterOperator(ctx, in)
			if err != nil {
				return fmt.Errorf("registrar operador: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Operador %s (%s) registrado con rol %s.\n", out.FullName, out.CI, out.Role)
			return nil
		},
	}
	operatorCmd.Flags().String("ci", "", "CI del operador")
	operatorCmd.Flags().String("nombres", "", "Nombres")
	operatorCmd.Flags().String("apellidos", "", "Apellidos")
	operatorCmd.Flags().String("rol", "admin", "Rol: admin, odontologo o almacen")
	operatorCmd.Flags().String("password", "", "Contraseña (o KARDEX_OPERATOR_PASSWORD)")
	_ = operatorCmd.MarkFlagRequired("ci")
	cmd.AddCommand(operatorCmd)

	return cmd
}
