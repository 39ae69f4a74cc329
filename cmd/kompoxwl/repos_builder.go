package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yaegashi/kompoxwl/adapters/kube"
	"github.com/yaegashi/kompoxwl/adapters/store/inmem"
	"github.com/yaegashi/kompoxwl/adapters/store/kv"
	"github.com/yaegashi/kompoxwl/adapters/store/rdb"
	"github.com/yaegashi/kompoxwl/domain"
	"github.com/yaegashi/kompoxwl/usecase/workload"
)

// reposCache keeps one set of repositories per db-url for the process lifetime,
// so that mem: releases recorded by one command are visible to the next.
var (
	reposCache   = map[string]*domain.Repositories{}
	reposCacheMu sync.Mutex
)

// findFlag looks up a flag on cmd or its ancestors.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

// getDBURL extracts the db-url flag value from command hierarchy.
func getDBURL(cmd *cobra.Command) string {
	f := findFlag(cmd, "db-url")
	if f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return "sqlite:"
}

// buildRepos creates repositories based on db-url.
func buildRepos(cmd *cobra.Command) (*domain.Repositories, error) {
	dbURL := getDBURL(cmd)

	reposCacheMu.Lock()
	defer reposCacheMu.Unlock()
	if cached, ok := reposCache[dbURL]; ok {
		return cached, nil
	}

	var repos *domain.Repositories
	switch {
	case strings.HasPrefix(dbURL, "mem:"):
		repos = inmem.NewStore().Repositories()
	case strings.HasPrefix(dbURL, "sqlite:") || strings.HasPrefix(dbURL, "sqlite3:"):
		db, err := rdb.OpenFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, err
		}
		repos = &domain.Repositories{Release: rdb.NewReleaseRepository(db)}
	case strings.HasPrefix(dbURL, "redis:") || strings.HasPrefix(dbURL, "rediss:"):
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		client, err := kv.OpenFromURL(ctx, dbURL)
		if err != nil {
			return nil, err
		}
		repos = &domain.Repositories{Release: kv.NewReleaseRepository(client, kv.DefaultPrefix)}
	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
	reposCache[dbURL] = repos
	return repos, nil
}

// buildWorkloadUseCase wires the workload use case. Repositories are opened
// only when needed so that validate and plain render never touch the database.
func buildWorkloadUseCase(cmd *cobra.Command, needRepos bool) (*workload.UseCase, error) {
	u := &workload.UseCase{Renderer: kube.NewRenderer()}
	if !needRepos {
		return u, nil
	}
	repos, err := buildRepos(cmd)
	if err != nil {
		return nil, err
	}
	u.Repos = &workload.Repos{Release: repos.Release}
	return u, nil
}
