package kubernetes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/kevinfinalboss/replicator/internal/logger"
	"github.com/kevinfinalboss/replicator/pkg/types"
)

type Client struct {
	clientset kubernetes.Interface
	logger    *logger.Logger
}

func NewClient(cfg *types.KubernetesConfig, log *logger.Logger) (*Client, error) {
	log.Info("connecting_k8s").Send()

	restConfig, contextName, err := loadRESTConfig(cfg)
	if err != nil {
		log.Error("k8s_connection_failed").Err(err).Send()
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		log.Error("k8s_connection_failed").Err(err).Send()
		return nil, err
	}

	log.Info("k8s_connected").Str("context", contextName).Send()

	return NewClientFromInterface(clientset, log), nil
}

func NewClientFromInterface(clientset kubernetes.Interface, log *logger.Logger) *Client {
	return &Client{
		clientset: clientset,
		logger:    log,
	}
}

// loadRESTConfig prefers the in-cluster service account so scheduled runs
// inside a cluster need no kubeconfig.
func loadRESTConfig(cfg *types.KubernetesConfig) (*rest.Config, string, error) {
	kubeconfig := cfg.Kubeconfig
	if kubeconfig == "" {
		kubeconfig = getKubeconfigPath()
	}

	if _, err := os.Stat(kubeconfig); kubeconfig == "" || err != nil {
		if restConfig, err := rest.InClusterConfig(); err == nil {
			return restConfig, "in-cluster", nil
		}
	}

	configLoader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		&clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig},
		&clientcmd.ConfigOverrides{CurrentContext: cfg.Context},
	)

	restConfig, err := configLoader.ClientConfig()
	if err != nil {
		return nil, "", err
	}

	contextName := cfg.Context
	if contextName == "" {
		if rawConfig, err := configLoader.RawConfig(); err == nil {
			contextName = rawConfig.CurrentContext
		}
	}

	return restConfig, contextName, nil
}

func getKubeconfigPath() string {
	if kubeconfig := os.Getenv("KUBECONFIG"); kubeconfig != "" {
		return kubeconfig
	}

	if home := homedir.HomeDir(); home != "" {
		return filepath.Join(home, ".kube", "config")
	}

	return ""
}

func (c *Client) ConfigMapData(ctx context.Context, namespace, name string) (map[string]string, error) {
	c.logger.Debug("reading_configmap").
		Str("namespace", namespace).
		Str("name", name).
		Send()

	configMap, err := c.clientset.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read configmap %s/%s: %w", namespace, name, err)
	}

	return configMap.Data, nil
}
