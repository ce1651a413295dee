package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
	ActionExternalServiceFailed     = "external_service_failed"

	ActionLocationReceived  = "location_received"
	ActionLocationRejected  = "location_rejected"
	ActionLocationStored    = "location_stored"
	ActionFanout            = "fanout"
	ActionDeliveryFailed    = "delivery_failed"
	ActionIntegrationFailed = "integration_publish_failed"

	ActionWSConnected    = "ws_connected"
	ActionWSDisconnected = "ws_disconnected"
	ActionWSRequest      = "ws_request"
	ActionWSIgnored      = "ws_message_ignored"

	ActionRetentionPrune = "retention_prune"
	ActionMigrate        = "migrate"
	ActionSeed           = "seed"
)
