package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/alfredjeanlab/ffs/internal/client"
	"github.com/alfredjeanlab/ffs/internal/server"
	"github.com/alfredjeanlab/ffs/internal/ui"
)

const healthTimeout = 5 * time.Second

func defaultGRPCAddr() string {
	if s := os.Getenv("FFS_GRPC_ADDR"); s != "" {
		return s
	}
	if a := activeRemoteGRPCAddr(); a != "" {
		return a
	}
	return "localhost:9090"
}

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the ffs server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")

		ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
		defer cancel()

		switch transport {
		case "http":
			return httpHealth(ctx, cmd)
		case "grpc":
			addr, _ := cmd.Flags().GetString("grpc-addr")
			return grpcHealth(ctx, cmd, addr)
		default:
			return fmt.Errorf("unknown transport %q (want http or grpc)", transport)
		}
	},
}

func httpHealth(ctx context.Context, cmd *cobra.Command) error {
	status, err := moviesClient.Health(ctx)
	if err != nil {
		return fmt.Errorf("checking health: %w", err)
	}

	if jsonOutput {
		if err := printJSON(cmd.OutOrStdout(), map[string]string{"status": status}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Health: %s\n", ui.RenderStatus(status, status == "ok"))
	}

	if status != "ok" {
		return fmt.Errorf("unhealthy: %s", status)
	}
	return nil
}

func grpcHealth(ctx context.Context, cmd *cobra.Command, addr string) error {
	hc, err := client.NewGRPCHealthClient(addr)
	if err != nil {
		return err
	}
	defer hc.Close()

	resp, err := hc.Check(ctx, server.HealthService)
	if err != nil {
		return fmt.Errorf("checking health: %w", err)
	}

	serving := resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	if jsonOutput {
		data, err := protojson.Marshal(resp)
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Health (%s): %s\n", server.HealthService,
			ui.RenderStatus(resp.GetStatus().String(), serving))
	}

	if !serving {
		return fmt.Errorf("unhealthy: %s", resp.GetStatus())
	}
	return nil
}

func init() {
	healthCmd.Flags().String("transport", "http", "health check transport: http or grpc")
	healthCmd.Flags().String("grpc-addr", defaultGRPCAddr(), "gRPC server address")
}
