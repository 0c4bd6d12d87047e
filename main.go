package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/docker/go-plugins-helpers/network"
	"github.com/nategraf/docker-net-dhcp/coordinator"
	"github.com/nategraf/docker-net-dhcp/driver"
	"github.com/nategraf/docker-net-dhcp/engine"
	"github.com/sirupsen/logrus"
)

const socketAddress = "/run/docker/plugins/net-dhcp.sock"

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	reflect, err := engine.NewClient()
	if err != nil {
		logrus.WithError(err).Fatal("failed to create engine client")
	}

	opts := coordinator.DHCPOptions{
		ClientPathV4: env("NET_DHCP_CLIENT_V4", "/sbin/udhcpc"),
		ClientPathV6: env("NET_DHCP_CLIENT_V6", "/sbin/udhcpc6"),
		ShimPath:     env("NET_DHCP_SHIM", "/usr/libexec/docker-net-dhcp/shim"),
		QueueDir:     env("NET_DHCP_QUEUE_DIR", "/run/docker-net-dhcp"),
	}

	co, err := coordinator.New(reflect, opts)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create coordinator")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		logrus.Info("shutting down")
		co.Shutdown()
		os.Exit(0)
	}()

	d := driver.New(co)
	h := network.NewHandler(d)
	if err := h.ServeUnix(socketAddress, 0); err != nil {
		logrus.WithError(err).Fatal("plugin server exited")
	}
}
