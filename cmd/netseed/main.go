// Command netseed manages the office networks used for check-in admission.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/cmlabs-hris/presence-backend-go/internal/config"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/network"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	networkService "github.com/cmlabs-hris/presence-backend-go/internal/service/network"
	"github.com/spf13/pflag"
)

type options struct {
	file       string
	name       string
	ip         string
	subnet     string
	deactivate string
	list       bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("netseed", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: netseed (-f FILE | --name NAME --ip IP [--subnet MASK] | --deactivate NAME | --list)")
		fs.PrintDefaults()
	}
	fs.StringVarP(&opts.file, "file", "f", "", "YAML file of networks to upsert")
	fs.StringVar(&opts.name, "name", "", "network name for a single upsert")
	fs.StringVar(&opts.ip, "ip", "", "IPv4 address of the network")
	fs.StringVar(&opts.subnet, "subnet", "", `dotted mask or prefix, e.g. "255.255.255.0" or "/24"`)
	fs.StringVar(&opts.deactivate, "deactivate", "", "mark the named network inactive")
	fs.BoolVar(&opts.list, "list", false, "print configured networks")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	modes := 0
	for _, set := range []bool{opts.file != "", opts.name != "" || opts.ip != "", opts.deactivate != "", opts.list} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		fs.Usage()
		return options{}, errors.New("choose exactly one of -f, --name/--ip, --deactivate or --list")
	}
	return opts, nil
}

// configs returns the networks to upsert for -f or --name/--ip.
func (o options) configs() ([]network.Config, error) {
	if o.file != "" {
		f, err := os.Open(o.file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parseSeed(f)
	}

	cfg := network.Config{Name: o.name, IPAddress: o.ip, IsActive: true}
	if o.subnet != "" {
		cfg.Subnet = &o.subnet
	}
	if err := networkService.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return []network.Config{cfg}, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(context.Background(), opts); err != nil {
		slog.Error("netseed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	db, err := database.NewPostgreSQLDB(ctx, dbCfg.URL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	repo := postgresql.NewNetworkConfigRepository(db)

	switch {
	case opts.list:
		return list(ctx, repo, os.Stdout)

	case opts.deactivate != "":
		if err := repo.SetActive(ctx, opts.deactivate, false); err != nil {
			return err
		}
		slog.Info("Network deactivated", "name", opts.deactivate)
		return nil
	}

	configs, err := opts.configs()
	if err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, db, func(ctx context.Context) error {
		for _, cfg := range configs {
			saved, err := repo.UpsertByName(ctx, cfg)
			if err != nil {
				return fmt.Errorf("upsert %q: %w", cfg.Name, err)
			}
			slog.Info("Network saved", "name", saved.Name, "ip_address", saved.IPAddress, "active", saved.IsActive)
		}
		return nil
	})
}

func list(ctx context.Context, repo network.ConfigRepository, out io.Writer) error {
	configs, err := repo.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tIP ADDRESS\tSUBNET\tACTIVE")
	for _, cfg := range configs {
		subnet := "-"
		if cfg.Subnet != nil && *cfg.Subnet != "" {
			subnet = *cfg.Subnet
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", cfg.Name, cfg.IPAddress, subnet, cfg.IsActive)
	}
	return w.Flush()
}
