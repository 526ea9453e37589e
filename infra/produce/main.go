package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	StorageEvents *StorageEventService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	storageEvents := InitStorageEventService(channel)
	if storageEvents == nil {
		panic("Failed to initialize Storage event service")
	}

	produceInstance = &Produce{
		StorageEvents: storageEvents,
	}

	return produceInstance
}
