package event

import (
	"encoding/json"
	"fmt"
	"strconv"

	"shop_trade/internal/pkg/config"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"
	"github.com/aliyun/alibaba-cloud-sdk-go/services/push"
)

// AliyunPushSink 阿里云移动推送下游，按账号维度通知买家
type AliyunPushSink struct {
	client *push.Client
	appKey int64
}

func NewAliyunPushSink() (*AliyunPushSink, error) {
	cfg := config.GlobalConfig.Push

	// 如果配置为空，为了不阻塞启动，返回错误由调用方降级为 NopSink
	if cfg.AccessKeyID == "" || cfg.AppKey == 0 {
		return nil, fmt.Errorf("push config is missing")
	}

	client, err := push.NewClientWithAccessKey(
		cfg.RegionID,
		cfg.AccessKeyID,
		cfg.AccessKeySecret,
	)
	if err != nil {
		return nil, err
	}

	return &AliyunPushSink{
		client: client,
		appKey: cfg.AppKey,
	}, nil
}

func (s *AliyunPushSink) Deliver(evt OrderEvent) error {
	request := push.CreatePushRequest()
	request.AppKey = requests.NewInteger(int(s.appKey))
	request.Target = "ACCOUNT"
	request.TargetValue = strconv.FormatUint(evt.UserID, 10)
	request.Title = evt.Title
	request.Body = evt.Body
	request.DeviceType = "ALL"  // iOS & Android
	request.PushType = "NOTICE" // 通知

	// 扩展参数 (JSON 序列化)
	ext := map[string]string{
		"kind":     string(evt.Kind),
		"order_no": evt.OrderNo,
	}
	for k, v := range evt.Extra {
		ext[k] = v
	}
	extJSON, _ := json.Marshal(ext)
	request.AndroidExtParameters = string(extJSON)
	request.IOSExtParameters = string(extJSON)

	_, err := s.client.Push(request)
	return err
}

var _ Sink = (*AliyunPushSink)(nil)
