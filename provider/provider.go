package provider

import (
	"github.com/google/wire"

	"github.com/scholarbee/admissions-core-api/biz/application/service"
	"github.com/scholarbee/admissions-core-api/biz/domain/chatsession"
	"github.com/scholarbee/admissions-core-api/biz/infra/config"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/conversation"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/message"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/orgunit"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/user"
	"github.com/scholarbee/admissions-core-api/pkg/wsx"
)

var provider *Provider

func Init() {
	var err error
	provider, err = NewProvider()
	if err != nil {
		panic(err)
	}
}

// Provider 提供controller依赖的对象
type Provider struct {
	Config      *config.Config
	ChatService service.IChatService
	Hub         *wsx.Hub
}

func Get() *Provider {
	return provider
}

var ApplicationSet = wire.NewSet(
	service.ChatServiceSet,
)

var DomainSet = wire.NewSet(
	chatsession.NewTracker,
	wire.Bind(new(chatsession.MessageReader), new(message.MongoMapper)),
)

var InfraSet = wire.NewSet(
	config.NewConfig,
	conversation.NewConversationMongoMapper,
	message.NewMessageMongoMapper,
	user.NewUserMongoMapper,
	orgunit.NewOrgUnitMongoMapper,
	wsx.NewHub,
)

var AllProvider = wire.NewSet(
	ApplicationSet,
	DomainSet,
	InfraSet,
)
