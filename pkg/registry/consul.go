// Package registry 把本服务注册进Consul并在退出时注销
package registry

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/hashicorp/consul/api"

	"github.com/tientruong05/todo-talk-quynhon/config"
)

// Registration describes how this instance shows up in the catalog.
type Registration struct {
	Name       string
	Address    string
	Port       int
	Tags       []string
	HealthPath string
}

// Consul holds the registered instance so it can be deregistered later.
type Consul struct {
	client    *api.Client
	serviceID string
}

// Register connects to the agent, verifies the cluster has a leader and
// registers this instance with an HTTP health check. Instances that stay
// critical for a minute are dropped from the catalog automatically.
func Register(cfg config.ConsulConfig, reg Registration) (*Consul, error) {
	apiCfg := api.DefaultConfig()
	apiCfg.Address = cfg.Address
	apiCfg.Scheme = cfg.Scheme
	apiCfg.Datacenter = cfg.Datacenter

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	if _, err := client.Status().Leader(); err != nil {
		return nil, fmt.Errorf("consul unreachable: %w", err)
	}

	serviceID := fmt.Sprintf("%s-%s-%d", reg.Name, reg.Address, reg.Port)
	err = client.Agent().ServiceRegister(&api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    reg.Name,
		Tags:    reg.Tags,
		Address: reg.Address,
		Port:    reg.Port,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d%s", reg.Address, reg.Port, reg.HealthPath),
			Interval:                       (10 * time.Second).String(),
			Timeout:                        (3 * time.Second).String(),
			DeregisterCriticalServiceAfter: time.Minute.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("consul register: %w", err)
	}

	log.Printf("[INFO] 已注册到Consul: %s (%s)", reg.Name, serviceID)
	return &Consul{client: client, serviceID: serviceID}, nil
}

// Deregister 进程退出前调用
func (c *Consul) Deregister() {
	if err := c.client.Agent().ServiceDeregister(c.serviceID); err != nil {
		log.Printf("[WARN] Consul注销失败: %v", err)
		return
	}
	log.Printf("[INFO] 已从Consul注销: %s", c.serviceID)
}

// LocalIP 取对外可达的本机地址
func LocalIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
