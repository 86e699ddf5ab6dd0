package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisQueue Redis队列实现（审计流水、导出任务、订单事件广播共用一个连接）
type RedisQueue struct {
	client *redis.Client
	prefix string
}

// AuditMessage 审计流水消息，入队后由消费者落库
type AuditMessage struct {
	ActorID      uint                   `json:"actor_id"`
	TenantID     *uint                  `json:"tenant_id"` // 平台级操作为null
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id"`
	RequestID    string                 `json:"request_id"`
	Details      map[string]interface{} `json:"details,omitempty"`
	Created      int64                  `json:"created"`
}

// ExportMessage 导出任务消息
type ExportMessage struct {
	JobID    string `json:"job_id"`
	TenantID uint   `json:"tenant_id"`
	UserID   uint   `json:"user_id"`
	Created  int64  `json:"created"`
}

// Config Redis配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// NewRedisQueue 创建Redis队列实例
func NewRedisQueue(config *Config) *RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	prefix := config.Prefix
	if prefix == "" {
		prefix = "servaan"
	}

	return &RedisQueue{
		client: client,
		prefix: prefix,
	}
}

// Close 关闭Redis连接
func (q *RedisQueue) Close() error {
	return q.client.Close()
}

// Ping 测试Redis连接
func (q *RedisQueue) Ping() error {
	ctx := context.Background()
	return q.client.Ping(ctx).Err()
}

// ========== 审计队列 ==========

func (q *RedisQueue) auditKey() string {
	return q.prefix + ":audit"
}

// EnqueueAudit 审计消息入队（左侧入队）
func (q *RedisQueue) EnqueueAudit(msg *AuditMessage) error {
	ctx := context.Background()

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化审计消息失败: %v", err)
	}

	if err := q.client.LPush(ctx, q.auditKey(), data).Err(); err != nil {
		return fmt.Errorf("审计消息入队失败: %v", err)
	}

	return nil
}

// DequeueAudit 阻塞式取出审计消息，超时返回nil
func (q *RedisQueue) DequeueAudit(ctx context.Context, timeout time.Duration) (*AuditMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.auditKey()).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	// BRPop返回 [key, value]
	var msg AuditMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("解析审计消息失败: %v", err)
	}

	return &msg, nil
}

// AuditQueueLength 当前审计队列长度
func (q *RedisQueue) AuditQueueLength() (int64, error) {
	ctx := context.Background()
	return q.client.LLen(ctx, q.auditKey()).Result()
}

// ========== 导出任务队列 ==========

func (q *RedisQueue) exportKey() string {
	return q.prefix + ":export"
}

// EnqueueExport 导出任务入队
func (q *RedisQueue) EnqueueExport(msg *ExportMessage) error {
	ctx := context.Background()

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化导出任务失败: %v", err)
	}

	if err := q.client.LPush(ctx, q.exportKey(), data).Err(); err != nil {
		return fmt.Errorf("导出任务入队失败: %v", err)
	}

	return nil
}

// DequeueExport 阻塞式取出导出任务，超时返回nil
func (q *RedisQueue) DequeueExport(ctx context.Context, timeout time.Duration) (*ExportMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.exportKey()).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var msg ExportMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("解析导出任务失败: %v", err)
	}

	return &msg, nil
}

// ========== 订单事件广播 ==========

func (q *RedisQueue) orderChannel(tenantID uint) string {
	return fmt.Sprintf("%s:orders:%d", q.prefix, tenantID)
}

// PublishOrderEvent 发布订单事件到租户频道
func (q *RedisQueue) PublishOrderEvent(tenantID uint, event interface{}) error {
	ctx := context.Background()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化订单事件失败: %v", err)
	}

	return q.client.Publish(ctx, q.orderChannel(tenantID), data).Err()
}

// SubscribeOrderEvents 订阅租户的订单事件频道
func (q *RedisQueue) SubscribeOrderEvents(ctx context.Context, tenantID uint) *redis.PubSub {
	return q.client.Subscribe(ctx, q.orderChannel(tenantID))
}
