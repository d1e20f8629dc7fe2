package ablecloud

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/mrlauy/alexa-ablecloud/config"
)

// Endpoint is the fixed AbleCloud service address and tenant identity.
// It is copied by value into the bridge and never changed afterwards.
type Endpoint struct {
	Host           string
	Port           int
	ServiceVersion string
	MajorDomainID  int64
	SubDomainID    int64
	DeveloperID    int64
}

func EndpointFromConfig(cfg config.CloudConfig) Endpoint {
	return Endpoint{
		Host:           cfg.Host,
		Port:           cfg.Port,
		ServiceVersion: cfg.ServiceVersion,
		MajorDomainID:  cfg.MajorDomainId,
		SubDomainID:    cfg.SubDomainId,
		DeveloperID:    cfg.DeveloperId,
	}
}

// Path returns /{service}/{version}/{method}. The method may carry a query string.
func (e Endpoint) Path(service, method string) string {
	return "/" + strings.Join([]string{service, e.ServiceVersion, method}, "/")
}

func (e Endpoint) url(service, method string) string {
	return fmt.Sprintf("https://%s%s", net.JoinHostPort(e.Host, strconv.Itoa(e.Port)), e.Path(service, method))
}
