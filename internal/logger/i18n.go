package logger

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type LocaleMessages struct {
	Messages map[string]string `yaml:"messages"`
}

// loadLocaleMessages prefers locales/<language>.yaml next to the binary's
// working directory and falls back to the embedded catalogs.
func loadLocaleMessages(language string) (map[string]string, error) {
	localeFile := filepath.Join("locales", language+".yaml")

	data, err := os.ReadFile(localeFile)
	if err != nil {
		return getEmbeddedMessages(language), nil
	}

	var locale LocaleMessages
	if err := yaml.Unmarshal(data, &locale); err != nil || len(locale.Messages) == 0 {
		return getEmbeddedMessages(language), nil
	}

	return locale.Messages, nil
}

func getEmbeddedMessages(language string) map[string]string {
	switch strings.ToLower(language) {
	case "pt-br":
		return ptBRMessages
	default:
		return enUSMessages
	}
}

var enUSMessages = map[string]string{
	"app_started":           "Replicator started",
	"config_not_found":      "Configuration file not found",
	"config_loaded":         "Configuration loaded",
	"config_created":        "File created",
	"config_already_exists": "File already exists, leaving it untouched",
	"operation_completed":   "Operation completed",
	"operation_failed":      "Operation failed",
	"manifest_loaded":       "Image manifest loaded",

	"connecting_k8s":        "Connecting to Kubernetes cluster",
	"k8s_connected":         "Connected to Kubernetes cluster",
	"k8s_connection_failed": "Failed to connect to cluster",
	"reading_configmap":     "Reading manifest ConfigMap",

	"ecr_target_resolved":           "ECR target registry resolved",
	"ecr_using_credentials":         "Using static AWS credentials",
	"ecr_using_profiles":            "Trying configured AWS profiles",
	"ecr_trying_profile":            "Trying AWS profile",
	"ecr_profile_success":           "AWS profile loaded",
	"ecr_profile_failed":            "AWS profile could not be loaded",
	"ecr_using_default_credentials": "Using default AWS credential chain",
	"account_id_discovered":         "AWS account ID discovered",
	"ecr_checking_repository":       "Describing ECR repository",
	"ecr_checking_image":            "Describing image in ECR",
	"ecr_latest_tag_forced":         "Tag latest is never reported as present",
	"ecr_creating_repository":       "Creating ECR repository",
	"ecr_repository_exists":         "ECR repository already exists",
	"ecr_repository_created":        "ECR repository created",
	"ecr_applying_policy":           "Setting repository policy",
	"ecr_policy_malformed":          "Registry rejected the repository policy",
	"ecr_policy_applied":            "Repository policy set",
	"ecr_call_retrying":             "ECR call failed, retrying",
	"ecr_control_plane_error":       "ECR call failed permanently",

	"transfer_started":   "Transferring image",
	"transfer_failed":    "Image transfer failed",
	"transfer_completed": "Image transferred",

	"checking_repository":       "Checking destination repository",
	"repository_missing":        "Destination repository missing, creating it",
	"policy_not_configured":     "No repository policy configured",
	"policy_load_failed":        "Repository policy could not be read",
	"policy_apply_failed":       "Repository policy was not applied",
	"checking_image":            "Checking whether image is present",
	"latest_tag_forced":         "Tag latest is always transferred",
	"image_present_skipping":    "Image already present, skipping",
	"image_missing_replicating": "Image missing, replicating",

	"run_started":                 "Replication run started",
	"run_interrupted":             "Replication run interrupted",
	"entry_started":               "Processing manifest entry",
	"entry_aborted":               "Fatal registry error while processing entry",
	"entry_transfer_failed":       "Entry could not be transferred",
	"dry_run_would_skip":          "Dry run: image already present",
	"dry_run_would_replicate":     "Dry run: image would be replicated",
	"run_summary":                 "Replication summary",
	"run_completed_clean":         "All images replicated",
	"run_completed_with_failures": "Replication finished with failures",
	"run_failure_detail":          "Image not replicated",

	"discord_webhook_enabled": "Discord notifications enabled",
	"discord_webhook_sent":    "Discord notification sent",
	"discord_webhook_failed":  "Discord notification failed",
	"html_report_generated":   "HTML report generated",
	"html_report_ready":       "HTML report ready",
	"html_report_failed":      "HTML report could not be generated",
}

var ptBRMessages = map[string]string{
	"app_started":           "Replicator iniciado",
	"config_not_found":      "Arquivo de configuração não encontrado",
	"config_loaded":         "Configuração carregada",
	"config_created":        "Arquivo criado",
	"config_already_exists": "Arquivo já existe, mantido sem alterações",
	"operation_completed":   "Operação concluída",
	"operation_failed":      "Operação falhou",
	"manifest_loaded":       "Manifesto de imagens carregado",

	"connecting_k8s":        "Conectando ao cluster Kubernetes",
	"k8s_connected":         "Conectado ao cluster Kubernetes",
	"k8s_connection_failed": "Falha ao conectar com o cluster",
	"reading_configmap":     "Lendo ConfigMap do manifesto",

	"ecr_target_resolved":           "Registry ECR de destino resolvido",
	"ecr_using_credentials":         "Usando credenciais AWS estáticas",
	"ecr_using_profiles":            "Tentando profiles AWS configurados",
	"ecr_trying_profile":            "Tentando profile AWS",
	"ecr_profile_success":           "Profile AWS carregado",
	"ecr_profile_failed":            "Profile AWS não pôde ser carregado",
	"ecr_using_default_credentials": "Usando cadeia padrão de credenciais AWS",
	"account_id_discovered":         "Account ID da AWS descoberto",
	"ecr_checking_repository":       "Consultando repositório ECR",
	"ecr_checking_image":            "Consultando imagem no ECR",
	"ecr_latest_tag_forced":         "Tag latest nunca é considerada presente",
	"ecr_creating_repository":       "Criando repositório ECR",
	"ecr_repository_exists":         "Repositório ECR já existe",
	"ecr_repository_created":        "Repositório ECR criado",
	"ecr_applying_policy":           "Aplicando policy do repositório",
	"ecr_policy_malformed":          "Registry rejeitou a policy do repositório",
	"ecr_policy_applied":            "Policy do repositório aplicada",
	"ecr_call_retrying":             "Chamada ao ECR falhou, tentando novamente",
	"ecr_control_plane_error":       "Chamada ao ECR falhou definitivamente",

	"transfer_started":   "Transferindo imagem",
	"transfer_failed":    "Falha na transferência da imagem",
	"transfer_completed": "Imagem transferida",

	"checking_repository":       "Verificando repositório de destino",
	"repository_missing":        "Repositório de destino ausente, criando",
	"policy_not_configured":     "Nenhuma policy de repositório configurada",
	"policy_load_failed":        "Policy do repositório não pôde ser lida",
	"policy_apply_failed":       "Policy do repositório não foi aplicada",
	"checking_image":            "Verificando se a imagem existe",
	"latest_tag_forced":         "Tag latest é sempre transferida",
	"image_present_skipping":    "Imagem já existe, pulando",
	"image_missing_replicating": "Imagem ausente, replicando",

	"run_started":                 "Replicação iniciada",
	"run_interrupted":             "Replicação interrompida",
	"entry_started":               "Processando entrada do manifesto",
	"entry_aborted":               "Erro fatal do registry ao processar entrada",
	"entry_transfer_failed":       "Entrada não pôde ser transferida",
	"dry_run_would_skip":          "Dry run: imagem já existe",
	"dry_run_would_replicate":     "Dry run: imagem seria replicada",
	"run_summary":                 "Resumo da replicação",
	"run_completed_clean":         "Todas as imagens replicadas",
	"run_completed_with_failures": "Replicação finalizada com falhas",
	"run_failure_detail":          "Imagem não replicada",

	"discord_webhook_enabled": "Notificações do Discord habilitadas",
	"discord_webhook_sent":    "Notificação do Discord enviada",
	"discord_webhook_failed":  "Falha ao enviar notificação do Discord",
	"html_report_generated":   "Relatório HTML gerado",
	"html_report_ready":       "Relatório HTML pronto",
	"html_report_failed":      "Relatório HTML não pôde ser gerado",
}
