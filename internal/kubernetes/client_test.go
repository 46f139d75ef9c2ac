package kubernetes

import (
	"context"
	"testing"

	"github.com/kevinfinalboss/replicator/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestClient_ConfigMapData(t *testing.T) {
	clientset := fake.NewSimpleClientset(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "replicator-images", Namespace: "platform"},
		Data:       map[string]string{"images.yaml": "- source: library/nginx\n  tag: \"1.25\"\n"},
	})
	client := NewClientFromInterface(clientset, logger.NewTest())

	data, err := client.ConfigMapData(context.Background(), "platform", "replicator-images")
	require.NoError(t, err)
	assert.Contains(t, data["images.yaml"], "library/nginx")

	_, err = client.ConfigMapData(context.Background(), "platform", "missing")
	assert.Error(t, err)
}
